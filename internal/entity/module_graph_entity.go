package entity

import (
	"simvado-be/pkg/graph"

	"github.com/google/uuid"
)

// ModuleGraph pairs the traversal structure of a module with the node
// content needed to render and score it.
type ModuleGraph struct {
	Graph   *graph.Graph
	nodes   map[string]*DecisionNode
	options map[uuid.UUID]*NodeOption
}

func NewModuleGraph(moduleId uuid.UUID, nodes []*DecisionNode) *ModuleGraph {
	mg := &ModuleGraph{
		nodes:   make(map[string]*DecisionNode, len(nodes)),
		options: make(map[uuid.UUID]*NodeOption),
	}

	gnodes := make([]graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if _, dup := mg.nodes[n.NodeKey]; !dup {
			mg.nodes[n.NodeKey] = n
		}
		gn := graph.Node{
			ID:        n.Id,
			Key:       n.NodeKey,
			SortOrder: n.SortOrder,
			Options:   make([]graph.Option, 0, len(n.Options)),
		}
		for _, o := range n.Options {
			mg.options[o.Id] = o
			gn.Options = append(gn.Options, graph.Option{
				ID:          o.Id,
				Key:         o.OptionKey,
				Label:       o.Label,
				NextNodeKey: o.NextNodeKey,
			})
		}
		gnodes = append(gnodes, gn)
	}
	mg.Graph = graph.New(moduleId, gnodes)
	return mg
}

func (mg *ModuleGraph) ModuleId() uuid.UUID {
	return mg.Graph.ModuleID
}

// Node returns the content for key, or nil.
func (mg *ModuleGraph) Node(key string) *DecisionNode {
	return mg.nodes[key]
}

// Option returns the option content for id, or nil.
func (mg *ModuleGraph) Option(id uuid.UUID) *NodeOption {
	return mg.options[id]
}

func (mg *ModuleGraph) OptionCount() int {
	return len(mg.options)
}
