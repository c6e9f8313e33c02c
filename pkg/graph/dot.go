package graph

import (
	"strconv"

	"github.com/awalterschulze/gographviz"
)

const endNode = "__end__"

// ExportDOT renders the graph as a directed DOT document. Terminal options
// point at a shared end node.
func ExportDOT(g *Graph) (string, error) {
	out := gographviz.NewGraph()
	if err := out.SetName("module"); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}

	hasTerminal := false
	for _, n := range g.Nodes {
		if err := out.AddNode("module", strconv.Quote(n.Key), map[string]string{
			"label": strconv.Quote(n.Key),
		}); err != nil {
			return "", err
		}
	}

	for _, n := range g.Nodes {
		for _, o := range n.Options {
			dst := endNode
			if !o.Terminal() {
				dst = strconv.Quote(*o.NextNodeKey)
			} else {
				hasTerminal = true
			}
			label := o.Key
			if o.Label != "" {
				label = o.Key + ": " + o.Label
			}
			if err := out.AddEdge(strconv.Quote(n.Key), dst, true, map[string]string{
				"label": strconv.Quote(label),
			}); err != nil {
				return "", err
			}
		}
	}

	if hasTerminal {
		if err := out.AddNode("module", endNode, map[string]string{
			"label": strconv.Quote("end"),
			"shape": "doublecircle",
		}); err != nil {
			return "", err
		}
	}

	return out.String(), nil
}
