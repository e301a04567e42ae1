package serializer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/parser"
)

const roundTripPatch = `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 0 1 0;
`

func TestSerializeRoundTrip(t *testing.T) {
	p, err := parser.Parse(roundTripPatch)
	require.NoError(t, err)

	out := Serialize(p)
	reparsed, err := parser.Parse(out)
	require.NoError(t, err)

	require.Len(t, reparsed.Root.Nodes, len(p.Root.Nodes))
	for i := range p.Root.Nodes {
		require.Equal(t, p.Root.Nodes[i].Name, reparsed.Root.Nodes[i].Name)
		require.Equal(t, p.Root.Nodes[i].Kind, reparsed.Root.Nodes[i].Kind)
	}
	require.Equal(t, p.Root.Connections, reparsed.Root.Connections)
}

func TestSerializeSubpatchRoundTrip(t *testing.T) {
	src := `#N canvas 0 0 450 300 10;
#X obj 10 10 inlet;
#N canvas 0 0 300 300 10;
#X obj 5 5 inlet;
#X obj 5 50 outlet;
#X connect 0 0 1 0;
#X restore 100 100 pd sub;
`
	p, err := parser.Parse(src)
	require.NoError(t, err)

	out := Serialize(p)
	reparsed, err := parser.Parse(out)
	require.NoError(t, err)

	require.Len(t, reparsed.Root.Children, 1)
	require.Equal(t, "sub", reparsed.Root.Children[0].Name)
	require.Len(t, reparsed.Root.Nodes, len(p.Root.Nodes))
}

func TestSerializeArrayRoundTrip(t *testing.T) {
	src := `#N canvas 0 0 450 300 10;
#X array mytable 4 float 0;
#A 0 1 2 3 4;
`
	p, err := parser.Parse(src)
	require.NoError(t, err)

	out := Serialize(p)
	reparsed, err := parser.Parse(out)
	require.NoError(t, err)

	require.Len(t, reparsed.Root.Nodes, 1)
	require.Equal(t, ast.KindArray, reparsed.Root.Nodes[0].Kind)
	require.Contains(t, reparsed.Root.Nodes[0].Raw, "0 1 2 3 4")
}
