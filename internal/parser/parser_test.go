package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
)

const simplePatch = `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 0 1 0;
`

func TestParseSimplePatch(t *testing.T) {
	p, err := Parse(simplePatch)
	require.NoError(t, err)
	require.NotNil(t, p.Root)

	assert.Len(t, p.Root.Nodes, 2)
	assert.Equal(t, "osc~", p.Root.Nodes[0].Name)
	assert.Equal(t, "dac~", p.Root.Nodes[1].Name)
	require.Len(t, p.Root.Connections, 1)
	assert.Equal(t, ast.Connection{FromNode: 0, FromOutlet: 0, ToNode: 1, ToInlet: 0}, p.Root.Connections[0])
}

func TestParseNodeIDsAreDenseByPosition(t *testing.T) {
	p, err := Parse(simplePatch)
	require.NoError(t, err)
	for i, n := range p.Root.Nodes {
		assert.Equal(t, i, n.ID)
	}
}

func TestParseSubpatch(t *testing.T) {
	src := `#N canvas 0 0 450 300 10;
#X obj 10 10 inlet;
#N canvas 0 0 300 300 10;
#X obj 5 5 inlet;
#X obj 5 50 outlet;
#X connect 0 0 1 0;
#X restore 100 100 pd sub;
#X obj 200 200 outlet;
#X connect 1 0 2 0;
`
	p, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Root.Nodes, 3)
	require.Len(t, p.Root.Children, 1)

	child := p.Root.Children[0]
	assert.Equal(t, "sub", child.Name)
	assert.Len(t, child.Nodes, 2)

	name, ok := ast.IsSubpatchObj(p.Root.Nodes[1])
	require.True(t, ok)
	assert.Equal(t, "sub", name)
}

func TestParseArrayContinuation(t *testing.T) {
	src := `#N canvas 0 0 450 300 10;
#X array mytable 4 float 0;
#A 0 1 2 3 4;
`
	p, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Root.Nodes, 1)
	n := p.Root.Nodes[0]
	assert.Equal(t, ast.KindArray, n.Kind)
	assert.Equal(t, "mytable", n.Name)
	assert.Equal(t, 4, n.ArraySize)
	assert.Contains(t, n.Raw, "0 1 2 3 4")
}

func TestParseStatementBeforeCanvasFails(t *testing.T) {
	_, err := Parse(`#X obj 10 10;\n`)
	assert.Error(t, err)
}

func TestParseEscapedSemicolon(t *testing.T) {
	src := `#N canvas 0 0 450 300 10;
#X msg 10 10 hello \; world;
`
	p, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Root.Nodes, 1)
	assert.Equal(t, ast.KindMsg, p.Root.Nodes[0].Kind)
}
