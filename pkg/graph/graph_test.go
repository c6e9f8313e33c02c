package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) *string { return &s }

func opt(k string, next *string) Option {
	return Option{ID: uuid.New(), Key: k, Label: "label " + k, NextNodeKey: next}
}

func twoStep() *Graph {
	return New(uuid.New(), []Node{
		{ID: uuid.New(), Key: "b", SortOrder: 1, Options: []Option{opt("b1", nil)}},
		{ID: uuid.New(), Key: "a", SortOrder: 0, Options: []Option{opt("a1", key("b"))}},
	})
}

func TestEntryIsLowestSortOrder(t *testing.T) {
	g := twoStep()
	entry, err := g.Entry()
	require.NoError(t, err)
	assert.Equal(t, "a", entry.Key)

	_, err = New(uuid.New(), nil).Entry()
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestEntryTieBrokenByKey(t *testing.T) {
	g := New(uuid.New(), []Node{
		{Key: "zeta", SortOrder: 0, Options: []Option{opt("z", nil)}},
		{Key: "alpha", SortOrder: 0, Options: []Option{opt("a", nil)}},
	})
	entry, err := g.Entry()
	require.NoError(t, err)
	assert.Equal(t, "alpha", entry.Key)
}

func TestTraversal(t *testing.T) {
	g := twoStep()
	entry, _ := g.Entry()

	node, o, err := g.NodeOfOption(entry.Options[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "a", node.Key)

	next, err := g.Next(o)
	require.NoError(t, err)
	assert.Equal(t, "b", next.Key)

	end, err := g.Next(&next.Options[0])
	require.NoError(t, err)
	assert.Nil(t, end)

	_, err = g.Option(uuid.New())
	assert.ErrorIs(t, err, ErrOptionNotFound)

	_, err = g.Node("missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		problem string
	}{
		{
			name: "dangling next key",
			nodes: []Node{
				{Key: "a", Options: []Option{opt("a1", key("ghost")), opt("a2", nil)}},
			},
			problem: `next node "ghost" does not exist`,
		},
		{
			name: "unreachable node",
			nodes: []Node{
				{Key: "a", Options: []Option{opt("a1", nil)}},
				{Key: "island", SortOrder: 1, Options: []Option{opt("i1", nil)}},
			},
			problem: `node "island" is unreachable`,
		},
		{
			name: "no terminal",
			nodes: []Node{
				{Key: "a", Options: []Option{opt("a1", key("b"))}},
				{Key: "b", SortOrder: 1, Options: []Option{opt("b1", key("a"))}},
			},
			problem: "no terminal option reachable",
		},
		{
			name: "node without options",
			nodes: []Node{
				{Key: "a", Options: []Option{opt("a1", key("b"))}},
				{Key: "b", SortOrder: 1},
			},
			problem: `node "b" has no options`,
		},
		{
			name: "duplicate node key",
			nodes: []Node{
				{Key: "a", Options: []Option{opt("a1", nil)}},
				{Key: "a", SortOrder: 1, Options: []Option{opt("a2", nil)}},
			},
			problem: `duplicate node key "a"`,
		},
		{
			name: "duplicate option key",
			nodes: []Node{
				{Key: "a", Options: []Option{opt("x", nil), opt("x", nil)}},
			},
			problem: `duplicate option key "x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(uuid.New(), tt.nodes).Validate()
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestValidateAcceptsCycleWithExit(t *testing.T) {
	g := New(uuid.New(), []Node{
		{Key: "a", Options: []Option{opt("loop", key("b"))}},
		{Key: "b", SortOrder: 1, Options: []Option{opt("back", key("a")), opt("done", nil)}},
	})
	assert.NoError(t, g.Validate())
	assert.NoError(t, twoStep().Validate())
}

func TestExportDOT(t *testing.T) {
	dot, err := ExportDOT(twoStep())
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph module")
	assert.Contains(t, dot, `"a"->"b"`)
	assert.Contains(t, dot, `"b"->__end__`)
	assert.Contains(t, dot, "doublecircle")
}
