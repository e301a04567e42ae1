package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree() *Patch {
	leaf1 := &Canvas{ID: 2, Name: "leaf1"}
	leaf2 := &Canvas{ID: 3, Name: "leaf2"}
	mid := &Canvas{ID: 1, Name: "mid", Children: []*Canvas{leaf1, leaf2}}
	root := &Canvas{ID: 0, Name: "root", Children: []*Canvas{mid}}
	return &Patch{Root: root}
}

func TestWalkVisitsDFSPreOrder(t *testing.T) {
	p := buildTree()
	var order []string
	p.Walk(func(c *Canvas) { order = append(order, c.Name) })
	assert.Equal(t, []string{"root", "mid", "leaf1", "leaf2"}, order)
}

func TestWalkNilPatchIsNoop(t *testing.T) {
	var p *Patch
	assert.NotPanics(t, func() { p.Walk(func(c *Canvas) {}) })
}

func TestFindCanvasByName(t *testing.T) {
	p := buildTree()
	c := p.FindCanvasByName("leaf2")
	require.NotNil(t, c)
	assert.Equal(t, 3, c.ID)

	assert.Nil(t, p.FindCanvasByName("missing"))
}

func TestAddNodeAssignsDenseID(t *testing.T) {
	c := &Canvas{}
	i0 := c.AddNode(Node{Kind: KindObj, Name: "osc~"})
	i1 := c.AddNode(Node{Kind: KindObj, Name: "dac~"})
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 0, c.Nodes[0].ID)
	assert.Equal(t, 1, c.Nodes[1].ID)
}

func TestIsSubpatchObj(t *testing.T) {
	n := Node{Kind: KindObj, Name: "pd", Args: []Token{SymbolToken("sub")}}
	name, ok := IsSubpatchObj(n)
	require.True(t, ok)
	assert.Equal(t, "sub", name)

	_, ok = IsSubpatchObj(Node{Kind: KindObj, Name: "osc~"})
	assert.False(t, ok)
}

func TestTokenStringRendersNumberAndSymbol(t *testing.T) {
	assert.Equal(t, "440", NumberToken(440, "440").String())
	assert.Equal(t, "bang", SymbolToken("bang").String())
}
