package graph

import (
	"fmt"
	"strings"
)

// ValidationError collects every problem found in a graph.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("found %d graph errors:\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Validate checks the graph before publish. Cycles are allowed as long as
// a terminal option is reachable from the entry node.
func (g *Graph) Validate() error {
	var problems []string
	if len(g.Nodes) == 0 {
		return &ValidationError{Problems: []string{ErrEmptyGraph.Error()}}
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Key == "" {
			problems = append(problems, "node with empty key")
		}
		if seen[n.Key] {
			problems = append(problems, fmt.Sprintf("duplicate node key %q", n.Key))
		}
		seen[n.Key] = true

		if len(n.Options) == 0 {
			problems = append(problems, fmt.Sprintf("node %q has no options", n.Key))
		}
		optionKeys := make(map[string]bool, len(n.Options))
		for _, o := range n.Options {
			if optionKeys[o.Key] {
				problems = append(problems, fmt.Sprintf("node %q: duplicate option key %q", n.Key, o.Key))
			}
			optionKeys[o.Key] = true
			if !o.Terminal() {
				if _, ok := g.byKey[*o.NextNodeKey]; !ok {
					problems = append(problems, fmt.Sprintf("node %q option %q: next node %q does not exist", n.Key, o.Key, *o.NextNodeKey))
				}
			}
		}
	}

	// BFS from the entry node
	entry := g.Nodes[0].Key
	visited := map[string]bool{}
	queue := []string{entry}
	terminalReachable := false
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		if visited[key] {
			continue
		}
		visited[key] = true

		n, err := g.Node(key)
		if err != nil {
			continue
		}
		for _, o := range n.Options {
			if o.Terminal() {
				terminalReachable = true
				continue
			}
			if !visited[*o.NextNodeKey] {
				queue = append(queue, *o.NextNodeKey)
			}
		}
	}

	for _, n := range g.Nodes {
		if !visited[n.Key] {
			problems = append(problems, fmt.Sprintf("node %q is unreachable from entry %q", n.Key, entry))
		}
	}
	if !terminalReachable {
		problems = append(problems, fmt.Sprintf("no terminal option reachable from entry %q", entry))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
