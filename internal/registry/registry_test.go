package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
)

func TestCanonicalResolvesAliases(t *testing.T) {
	r := New()
	name, ok := r.Canonical("sel")
	require.True(t, ok)
	assert.Equal(t, "select", name)
}

func TestCanonicalUnknownName(t *testing.T) {
	r := New()
	_, ok := r.Canonical("not-a-real-object")
	assert.False(t, ok)
}

func TestResolvePortCountsMultiChannelArgs(t *testing.T) {
	r := New()
	n := ast.Node{Kind: ast.KindObj, Name: "dac~", Args: []ast.Token{
		ast.NumberToken(1, "1"), ast.NumberToken(2, "2"), ast.NumberToken(3, "3"), ast.NumberToken(4, "4"),
	}}
	pc, ok := r.ResolvePortCounts(n)
	require.True(t, ok)
	assert.Equal(t, 4, pc.Inlets)
	assert.Equal(t, 0, pc.Outlets)
}

func TestResolvePortCountsArgsPlus(t *testing.T) {
	r := New()
	noArgs := ast.Node{Kind: ast.KindObj, Name: "osc~"}
	pc, ok := r.ResolvePortCounts(noArgs)
	require.True(t, ok)
	assert.Equal(t, 2, pc.Inlets) // ArgsPlus(0,2) with zero args -> min 2

	withArg := ast.Node{Kind: ast.KindObj, Name: "osc~", Args: []ast.Token{ast.NumberToken(440, "440")}}
	pc, ok = r.ResolvePortCounts(withArg)
	require.True(t, ok)
	assert.Equal(t, 2, pc.Inlets) // max(1+0, 2) == 2
}

func TestResolvePortCountsSelectCustomRule(t *testing.T) {
	r := New()
	n := ast.Node{Kind: ast.KindObj, Name: "select", Args: []ast.Token{
		ast.NumberToken(0, "0"), ast.NumberToken(1, "1"), ast.NumberToken(2, "2"),
	}}
	pc, ok := r.ResolvePortCounts(n)
	require.True(t, ok)
	assert.Equal(t, 4, pc.Outlets) // 3 args + 1 no-match tail
}

func TestResolvePortCountsTriggerMinimumTwo(t *testing.T) {
	r := New()
	n := ast.Node{Kind: ast.KindObj, Name: "trigger", Args: []ast.Token{ast.SymbolToken("bang")}}
	pc, ok := r.ResolvePortCounts(n)
	require.True(t, ok)
	assert.Equal(t, 2, pc.Outlets) // max(1, 2)
}

func TestResolvePortCountsUnknownObject(t *testing.T) {
	r := New()
	n := ast.Node{Kind: ast.KindObj, Name: "totally-unknown"}
	_, ok := r.ResolvePortCounts(n)
	assert.False(t, ok)
}

func TestIsAudio(t *testing.T) {
	r := New()
	assert.True(t, r.IsAudio(ast.Node{Kind: ast.KindObj, Name: "osc~"}))
	assert.False(t, r.IsAudio(ast.Node{Kind: ast.KindObj, Name: "metro"}))
	assert.False(t, r.IsAudio(ast.Node{Kind: ast.KindObj, Name: "unregistered-thing"}))
}

func TestResolveSubpatchPorts(t *testing.T) {
	r := New()
	c := &ast.Canvas{Nodes: []ast.Node{
		{Kind: ast.KindObj, Name: "inlet"},
		{Kind: ast.KindObj, Name: "inlet~"},
		{Kind: ast.KindObj, Name: "outlet"},
	}}
	pc := r.ResolveSubpatchPorts(c)
	assert.Equal(t, 2, pc.Inlets)
	assert.Equal(t, 1, pc.Outlets)
}

func TestResolveLegacyAlias(t *testing.T) {
	assert.Equal(t, "ch", ResolveLegacyAlias("hh"))
	assert.Equal(t, "bd", ResolveLegacyAlias("bd"))
}
