// Package graph holds a module's decision graph: nodes keyed by string,
// options pointing at successors by key. A Graph is read-only once built.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrEmptyGraph     = errors.New("graph has no nodes")
	ErrNodeNotFound   = errors.New("node not found")
	ErrOptionNotFound = errors.New("option not found")
)

type Option struct {
	ID          uuid.UUID
	Key         string
	Label       string
	NextNodeKey *string
}

// Terminal reports whether the option ends the session.
func (o *Option) Terminal() bool {
	return o.NextNodeKey == nil || *o.NextNodeKey == ""
}

type Node struct {
	ID        uuid.UUID
	Key       string
	SortOrder int
	Options   []Option
}

type Graph struct {
	ModuleID uuid.UUID
	Nodes    []Node

	byKey    map[string]int
	byOption map[uuid.UUID][2]int
}

// New indexes nodes by key and options by id. Nodes are ordered by sort
// order, ties broken by key. With duplicate keys the first node wins the
// index; Validate reports the duplicate.
func New(moduleID uuid.UUID, nodes []Node) *Graph {
	sorted := make([]Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].Key < sorted[j].Key
	})

	g := &Graph{
		ModuleID: moduleID,
		Nodes:    sorted,
		byKey:    make(map[string]int, len(sorted)),
		byOption: make(map[uuid.UUID][2]int),
	}
	for i, n := range sorted {
		if _, dup := g.byKey[n.Key]; !dup {
			g.byKey[n.Key] = i
		}
		for j, o := range n.Options {
			g.byOption[o.ID] = [2]int{i, j}
		}
	}
	return g
}

// Entry returns the node with the lowest sort order.
func (g *Graph) Entry() (*Node, error) {
	if len(g.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	return &g.Nodes[0], nil
}

func (g *Graph) Node(key string) (*Node, error) {
	i, ok := g.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}
	return &g.Nodes[i], nil
}

func (g *Graph) Option(id uuid.UUID) (*Option, error) {
	_, o, err := g.NodeOfOption(id)
	return o, err
}

// NodeOfOption returns the option and the node that owns it.
func (g *Graph) NodeOfOption(id uuid.UUID) (*Node, *Option, error) {
	pos, ok := g.byOption[id]
	if !ok {
		return nil, nil, ErrOptionNotFound
	}
	n := &g.Nodes[pos[0]]
	return n, &n.Options[pos[1]], nil
}

// Next resolves the successor of an option. A terminal option yields nil.
func (g *Graph) Next(o *Option) (*Node, error) {
	if o.Terminal() {
		return nil, nil
	}
	return g.Node(*o.NextNodeKey)
}
