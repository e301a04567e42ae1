package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
)

func TestAddAssignsDenseIndices(t *testing.T) {
	b := New()
	i0 := b.Add(Obj("osc~", Num(440)))
	i1 := b.Add(Obj("dac~"))
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Len(t, b.Spec().Nodes, 2)
}

func TestAddLaysOutDeterministicGrid(t *testing.T) {
	b1 := New()
	b1.Add(Obj("osc~"))
	b1.Add(Obj("dac~"))

	b2 := New()
	b2.Add(Obj("osc~"))
	b2.Add(Obj("dac~"))

	assert.Equal(t, b1.Spec().Nodes, b2.Spec().Nodes)
}

func TestAddAtBypassesCursor(t *testing.T) {
	b := New()
	idx := b.AddAt(Obj("osc~"), 500, 500)
	n := b.Spec().Nodes[idx]
	assert.Equal(t, 500.0, n.X)
	assert.Equal(t, 500.0, n.Y)
}

func TestWireDefaultsOutletInletToZero(t *testing.T) {
	b := New()
	a := b.Add(Obj("osc~"))
	d := b.Add(Obj("dac~"))
	b.Wire(a, d)
	require.Len(t, b.Spec().Connections, 1)
	assert.Equal(t, ast.Connection{FromNode: a, FromOutlet: 0, ToNode: d, ToInlet: 0}, b.Spec().Connections[0])
}

func TestWireExplicitOutletInlet(t *testing.T) {
	b := New()
	a := b.Add(Obj("select", Num(0), Num(1)))
	d := b.Add(Obj("print"))
	b.Wire(a, d, 1, 0)
	assert.Equal(t, 1, b.Spec().Connections[0].FromOutlet)
}

func TestNextColumnResetsRow(t *testing.T) {
	b := New()
	b.Add(Obj("osc~"))
	b.NextColumn()
	idx := b.Add(Obj("dac~"))
	assert.Equal(t, b.RowY(0), b.Spec().Nodes[idx].Y)
}

func TestFragmentPortAndParamLookup(t *testing.T) {
	f := &Fragment{
		Ports:      []Port{{Name: "audio", Direction: Output, SignalType: Audio}},
		Parameters: []ParameterDescriptor{{Name: "cutoff", Curve: Exponential}},
	}
	p, ok := f.PortByName("audio")
	require.True(t, ok)
	assert.Equal(t, Audio, p.SignalType)

	_, ok = f.PortByName("missing")
	assert.False(t, ok)

	pd, ok := f.ParamByName("cutoff")
	require.True(t, ok)
	assert.Equal(t, Exponential, pd.Curve)
}
