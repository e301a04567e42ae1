// Package analyzer builds a per-canvas signal-flow graph, runs topological
// sort with cycle detection, enumerates DSP source-to-sink paths, and scores
// patch complexity (spec §4.4 Analyzer). Every function here is pure and
// deterministic for a given AST (spec §5).
package analyzer

import (
	"fmt"
	"math"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/registry"
)

// EdgeType tags a graph edge as audio or control rate.
type EdgeType string

const (
	EdgeAudio   EdgeType = "audio"
	EdgeControl EdgeType = "control"
)

// Edge is one adjacency-list entry.
type Edge struct {
	To   int
	Type EdgeType
}

// Graph is the signal-flow graph for one canvas: adjacency list over node
// indices (spec §4.4).
type Graph struct {
	NodeCount int
	Adjacency map[int][]Edge
}

// BuildGraph constructs the signal-flow graph for a canvas: an edge is
// audio-tagged when both endpoints are audio-signal objects by registry
// lookup, else control (spec §4.4).
func BuildGraph(c *ast.Canvas, reg *registry.Registry) *Graph {
	g := &Graph{NodeCount: len(c.Nodes), Adjacency: make(map[int][]Edge)}
	for _, conn := range c.Connections {
		if conn.FromNode < 0 || conn.FromNode >= len(c.Nodes) || conn.ToNode < 0 || conn.ToNode >= len(c.Nodes) {
			continue // broken connections are the validator's concern, not the analyzer's
		}
		from, to := c.Nodes[conn.FromNode], c.Nodes[conn.ToNode]
		edgeType := EdgeControl
		if reg.IsAudio(from) && reg.IsAudio(to) {
			edgeType = EdgeAudio
		}
		g.Adjacency[conn.FromNode] = append(g.Adjacency[conn.FromNode], Edge{To: conn.ToNode, Type: edgeType})
	}
	return g
}

// TopoResult is the outcome of Kahn's algorithm over a Graph.
type TopoResult struct {
	Order     []int
	HasCycles bool
}

// TopologicalSort runs Kahn's algorithm; if the produced order is shorter
// than the node count, HasCycles is true — feedback is normal in this
// domain and is reported, not penalized (spec §4.4).
func TopologicalSort(g *Graph) TopoResult {
	inDegree := make([]int, g.NodeCount)
	for _, edges := range g.Adjacency {
		for _, e := range edges {
			inDegree[e.To]++
		}
	}

	queue := make([]int, 0, g.NodeCount)
	for n := 0; n < g.NodeCount; n++ {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]int, 0, g.NodeCount)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, e := range g.Adjacency[n] {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	return TopoResult{Order: order, HasCycles: len(order) < g.NodeCount}
}

// DSPChain is one audio source-to-sink path (spec §4.4).
type DSPChain struct {
	NodePath []int
	Names    []string
}

// DSPChains runs a DFS from every static audio-source node along
// audio-tagged edges, terminating each path at a static audio-sink node.
// Paths that don't reach a sink are discarded; per-path cycles are
// prevented by refusing to extend into a node already on the current path
// (spec §4.4).
func DSPChains(c *ast.Canvas, g *Graph) []DSPChain {
	var chains []DSPChain

	var dfs func(start int, path []int, onPath map[int]bool)
	dfs = func(node int, path []int, onPath map[int]bool) {
		name := nodeName(c, node)
		if registry.IsAudioSink(name) && len(path) > 1 {
			chains = append(chains, DSPChain{NodePath: append([]int{}, path...), Names: namesFor(c, path)})
			return
		}
		extended := false
		for _, e := range g.Adjacency[node] {
			if e.Type != EdgeAudio || onPath[e.To] {
				continue
			}
			extended = true
			onPath[e.To] = true
			dfs(e.To, append(path, e.To), onPath)
			onPath[e.To] = false
		}
		_ = extended // paths that never extend simply produce no chain, matching "discarded" rule
	}

	for n := 0; n < len(c.Nodes); n++ {
		if !registry.IsAudioSource(nodeName(c, n)) {
			continue
		}
		onPath := map[int]bool{n: true}
		dfs(n, []int{n}, onPath)
	}
	return dedupChains(chains)
}

// dedupChains collapses chains that share the same node path — parallel
// audio connections between the same two nodes (e.g. two separate cables
// into a dac~'s left and right inlets) are one DSP chain, not one per cable.
func dedupChains(chains []DSPChain) []DSPChain {
	seen := map[string]bool{}
	out := make([]DSPChain, 0, len(chains))
	for _, ch := range chains {
		key := fmt.Sprint(ch.NodePath)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ch)
	}
	return out
}

func nodeName(c *ast.Canvas, idx int) string {
	if idx < 0 || idx >= len(c.Nodes) {
		return ""
	}
	n := c.Nodes[idx]
	if n.Kind != ast.KindObj {
		return ""
	}
	return n.Name
}

func namesFor(c *ast.Canvas, path []int) []string {
	out := make([]string, len(path))
	for i, idx := range path {
		out[i] = nodeName(c, idx)
	}
	return out
}

// ComplexityLabel classifies a 0-100 score (spec §4.4).
type ComplexityLabel string

const (
	Trivial      ComplexityLabel = "trivial"
	Simple       ComplexityLabel = "simple"
	Moderate     ComplexityLabel = "moderate"
	Complex      ComplexityLabel = "complex"
	VeryComplex  ComplexityLabel = "very complex"
)

func labelFor(score int) ComplexityLabel {
	switch {
	case score <= 15:
		return Trivial
	case score <= 35:
		return Simple
	case score <= 60:
		return Moderate
	case score <= 80:
		return Complex
	default:
		return VeryComplex
	}
}

// CanvasReport is everything Analyze computes for one canvas.
type CanvasReport struct {
	CanvasID   int
	Graph      *Graph
	Topo       TopoResult
	DSPChains  []DSPChain
	Complexity int
	Label      ComplexityLabel
}

// Report is the patch-wide analysis output: one CanvasReport per canvas,
// indexed by canvas id, plus the maximum subpatch nesting depth used by the
// complexity score's depth factor.
type Report struct {
	Canvases map[int]*CanvasReport
	MaxDepth int
}

// Analyze walks every canvas in the patch and computes its graph, topo
// sort, DSP chains, and complexity score (spec §4.4).
func Analyze(p *ast.Patch, reg *registry.Registry) *Report {
	report := &Report{Canvases: make(map[int]*CanvasReport)}
	depth := map[int]int{}
	if p.Root != nil {
		depth[p.Root.ID] = 0
	}

	p.Walk(func(c *ast.Canvas) {
		d := depth[c.ID]
		for _, child := range c.Children {
			depth[child.ID] = d + 1
		}
		if d > report.MaxDepth {
			report.MaxDepth = d
		}
	})

	p.Walk(func(c *ast.Canvas) {
		g := BuildGraph(c, reg)
		topo := TopologicalSort(g)
		chains := DSPChains(c, g)
		score, label := complexityScore(c, chains, report.MaxDepth)
		report.Canvases[c.ID] = &CanvasReport{
			CanvasID:   c.ID,
			Graph:      g,
			Topo:       topo,
			DSPChains:  chains,
			Complexity: score,
			Label:      label,
		}
	})

	return report
}

// complexityScore implements spec §4.4's five-factor 0-100 score.
func complexityScore(c *ast.Canvas, chains []DSPChain, maxDepth int) (int, ComplexityLabel) {
	totalObjects := len(c.Nodes)
	connections := len(c.Connections)

	objectFactor := math.Min(30, float64(totalObjects)/3.3)

	densityFactor := 0.0
	if totalObjects > 0 {
		densityFactor = math.Min(20, (float64(connections)/float64(totalObjects))*6.7)
	}

	depthFactor := math.Min(15, float64(maxDepth)*5)

	avgChainLength := 0.0
	if len(chains) > 0 {
		total := 0
		for _, ch := range chains {
			total += len(ch.NodePath)
		}
		avgChainLength = float64(total) / float64(len(chains))
	}
	audioFactor := math.Min(20, float64(len(chains))*avgChainLength*2)

	uniqueTypes := map[string]bool{}
	for _, n := range c.Nodes {
		if n.Kind == ast.KindObj {
			uniqueTypes[n.Name] = true
		} else {
			uniqueTypes[string(n.Kind)] = true
		}
	}
	uniqueFactor := math.Min(15, float64(len(uniqueTypes))*0.75)

	sum := objectFactor + densityFactor + depthFactor + audioFactor + uniqueFactor
	score := int(math.Round(sum))
	return score, labelFor(score)
}
