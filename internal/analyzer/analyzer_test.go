package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/parser"
	"github.com/Conceptual-Machines/patch-core/internal/registry"
)

func TestBuildGraphTagsAudioEdges(t *testing.T) {
	p, err := parser.Parse(`#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 0 1 0;
`)
	require.NoError(t, err)
	reg := registry.New()
	g := BuildGraph(p.Root, reg)
	require.Len(t, g.Adjacency[0], 1)
	assert.Equal(t, EdgeAudio, g.Adjacency[0][0].Type)
}

func TestBuildGraphSkipsBrokenConnections(t *testing.T) {
	p, err := parser.Parse(`#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X connect 0 0 9 0;
`)
	require.NoError(t, err)
	g := BuildGraph(p.Root, registry.New())
	assert.Empty(t, g.Adjacency[0])
}

func TestTopologicalSortLinear(t *testing.T) {
	p, err := parser.Parse(`#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 0 1 0;
`)
	require.NoError(t, err)
	g := BuildGraph(p.Root, registry.New())
	topo := TopologicalSort(g)
	assert.False(t, topo.HasCycles)
	assert.Equal(t, []int{0, 1}, topo.Order)
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	p, err := parser.Parse(`#N canvas 0 0 450 300 10;
#X obj 50 50 + 1;
#X obj 50 100 + 1;
#X connect 0 0 1 0;
#X connect 1 0 0 0;
`)
	require.NoError(t, err)
	g := BuildGraph(p.Root, registry.New())
	topo := TopologicalSort(g)
	assert.True(t, topo.HasCycles)
}

func TestDSPChainsFindsSourceToSinkPath(t *testing.T) {
	p, err := parser.Parse(`#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 0 1 0;
`)
	require.NoError(t, err)
	g := BuildGraph(p.Root, registry.New())
	chains := DSPChains(p.Root, g)
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"osc~", "dac~"}, chains[0].Names)
}

func TestDSPChainsEmptyWithNoSink(t *testing.T) {
	p, err := parser.Parse(`#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 lop~ 200;
#X connect 0 0 1 0;
`)
	require.NoError(t, err)
	g := BuildGraph(p.Root, registry.New())
	assert.Empty(t, DSPChains(p.Root, g))
}

func TestAnalyzeComputesMaxDepth(t *testing.T) {
	p, err := parser.Parse(`#N canvas 0 0 450 300 10;
#X obj 10 10 inlet;
#N canvas 0 0 300 300 10;
#X obj 5 5 inlet;
#X obj 5 50 outlet;
#X connect 0 0 1 0;
#X restore 100 100 pd sub;
`)
	require.NoError(t, err)
	report := Analyze(p, registry.New())
	assert.Equal(t, 1, report.MaxDepth)
	assert.Len(t, report.Canvases, 2)
}

func TestComplexityLabelBoundaries(t *testing.T) {
	assert.Equal(t, Trivial, labelFor(0))
	assert.Equal(t, Simple, labelFor(20))
	assert.Equal(t, Moderate, labelFor(50))
	assert.Equal(t, Complex, labelFor(70))
	assert.Equal(t, VeryComplex, labelFor(95))
}
