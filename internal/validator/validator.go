// Package validator runs the nine structural checks from spec §4.4 against
// an ast.Patch, recursing into subpatches, and accumulates Issues rather
// than failing — content issues are never errors (spec §7).
package validator

import (
	"fmt"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/registry"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Code string

const (
	BrokenConnectionSource Code = "BROKEN_CONNECTION_SOURCE"
	BrokenConnectionTarget Code = "BROKEN_CONNECTION_TARGET"
	OutletOutOfBounds      Code = "OUTLET_OUT_OF_BOUNDS"
	InletOutOfBounds       Code = "INLET_OUT_OF_BOUNDS"
	DuplicateConnection    Code = "DUPLICATE_CONNECTION"
	UnknownObject          Code = "UNKNOWN_OBJECT"
	OrphanObject           Code = "ORPHAN_OBJECT"
	EmptySubpatch          Code = "EMPTY_SUBPATCH"
	NoDSPSink              Code = "NO_DSP_SINK"
)

// Issue is one accumulated finding (spec §4.4).
type Issue struct {
	Severity Severity
	Code     Code
	Message  string
	CanvasID int
	NodeID   *int
}

// Summary tallies issues by severity.
type Summary struct {
	Errors, Warnings, Infos int
}

// Result is the validator's output (spec §4.4).
type Result struct {
	Valid   bool
	Issues  []Issue
	Summary Summary
}

// FilterBySeverity returns the subset of issues at the given severity
// (SPEC_FULL.md supplement #3).
func (r Result) FilterBySeverity(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// String renders a one-line human-readable summary.
func (r Result) String() string {
	status := "valid"
	if !r.Valid {
		status = "invalid"
	}
	return fmt.Sprintf("%s: %d error(s), %d warning(s), %d info(s)",
		status, r.Summary.Errors, r.Summary.Warnings, r.Summary.Infos)
}

type accumulator struct {
	issues []Issue
}

func (a *accumulator) add(sev Severity, code Code, canvasID int, nodeID *int, format string, args ...any) {
	a.issues = append(a.issues, Issue{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		CanvasID: canvasID,
		NodeID:   nodeID,
	})
}

// Validate runs all nine checks over every canvas in p (DFS pre-order,
// spec §5 ordering guarantee), then every check in the order listed in
// spec §4.4's table, per-canvas.
func Validate(p *ast.Patch, reg *registry.Registry) Result {
	acc := &accumulator{}
	p.Walk(func(c *ast.Canvas) {
		validateCanvas(acc, c, reg)
	})

	var summary Summary
	for _, i := range acc.issues {
		switch i.Severity {
		case SeverityError:
			summary.Errors++
		case SeverityWarning:
			summary.Warnings++
		case SeverityInfo:
			summary.Infos++
		}
	}
	return Result{Valid: summary.Errors == 0, Issues: acc.issues, Summary: summary}
}

func validateCanvas(acc *accumulator, c *ast.Canvas, reg *registry.Registry) {
	checkConnections(acc, c, reg)
	checkDuplicateConnections(acc, c)
	checkUnknownObjects(acc, c, reg)
	checkOrphans(acc, c)
	checkEmptySubpatch(acc, c)
	checkNoDSPSink(acc, c, reg)
}

// checkConnections covers BROKEN_CONNECTION_SOURCE/TARGET and
// OUTLET/INLET_OUT_OF_BOUNDS in one pass over c.Connections.
func checkConnections(acc *accumulator, c *ast.Canvas, reg *registry.Registry) {
	n := len(c.Nodes)
	for _, conn := range c.Connections {
		if conn.FromNode < 0 || conn.FromNode >= n {
			acc.add(SeverityError, BrokenConnectionSource, c.ID, nil,
				"connection source node %d does not exist (canvas has %d nodes)", conn.FromNode, n)
			continue
		}
		if conn.ToNode < 0 || conn.ToNode >= n {
			acc.add(SeverityError, BrokenConnectionTarget, c.ID, nil,
				"connection target node %d does not exist (canvas has %d nodes)", conn.ToNode, n)
			continue
		}

		from, to := c.Nodes[conn.FromNode], c.Nodes[conn.ToNode]

		if outlets, ok := portsOut(c, from, reg); ok && conn.FromOutlet >= outlets {
			acc.add(SeverityError, OutletOutOfBounds, c.ID, &from.ID,
				"outlet %d out of bounds on node %d (%s), which has %d outlet(s)",
				conn.FromOutlet, from.ID, nodeLabel(from), outlets)
		}
		if inlets, ok := portsIn(c, to, reg); ok && conn.ToInlet >= inlets {
			acc.add(SeverityError, InletOutOfBounds, c.ID, &to.ID,
				"inlet %d out of bounds on node %d (%s), which has %d inlet(s)",
				conn.ToInlet, to.ID, nodeLabel(to), inlets)
		}
	}
}

// portsOut/portsIn resolve a node's outlet/inlet count, special-casing "pd"
// subpatch nodes via resolveSubpatchPorts as spec §4.4 requires.
func portsOut(c *ast.Canvas, n ast.Node, reg *registry.Registry) (int, bool) {
	if name, ok := ast.IsSubpatchObj(n); ok {
		if child := findChild(c, name); child != nil {
			return reg.ResolveSubpatchPorts(child).Outlets, true
		}
		return 0, false
	}
	pc, ok := reg.ResolvePortCounts(n)
	return pc.Outlets, ok
}

func portsIn(c *ast.Canvas, n ast.Node, reg *registry.Registry) (int, bool) {
	if name, ok := ast.IsSubpatchObj(n); ok {
		if child := findChild(c, name); child != nil {
			return reg.ResolveSubpatchPorts(child).Inlets, true
		}
		return 0, false
	}
	pc, ok := reg.ResolvePortCounts(n)
	return pc.Inlets, ok
}

func findChild(c *ast.Canvas, name string) *ast.Canvas {
	for _, ch := range c.Children {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

func checkDuplicateConnections(acc *accumulator, c *ast.Canvas) {
	count := make(map[ast.Connection]int, len(c.Connections))
	for _, conn := range c.Connections {
		count[conn]++
	}
	reported := make(map[ast.Connection]bool, len(c.Connections))
	for _, conn := range c.Connections {
		if count[conn] > 1 && !reported[conn] {
			reported[conn] = true
			acc.add(SeverityWarning, DuplicateConnection, c.ID, nil,
				"connection %d:%d -> %d:%d appears %d times",
				conn.FromNode, conn.FromOutlet, conn.ToNode, conn.ToInlet, count[conn])
		}
	}
}

func checkUnknownObjects(acc *accumulator, c *ast.Canvas, reg *registry.Registry) {
	for _, n := range c.Nodes {
		if n.Kind != ast.KindObj || n.Name == "pd" {
			continue
		}
		if _, ok := reg.Canonical(n.Name); !ok {
			id := n.ID
			acc.add(SeverityWarning, UnknownObject, c.ID, &id, "unknown object %q", n.Name)
		}
	}
}

func checkOrphans(acc *accumulator, c *ast.Canvas) {
	incident := make(map[int]bool, len(c.Nodes))
	for _, conn := range c.Connections {
		incident[conn.FromNode] = true
		incident[conn.ToNode] = true
	}
	for _, n := range c.Nodes {
		if incident[n.ID] {
			continue
		}
		if isOrphanExempt(n) {
			continue
		}
		id := n.ID
		acc.add(SeverityWarning, OrphanObject, c.ID, &id, "node %d (%s) has no connections", n.ID, nodeLabel(n))
	}
}

func isOrphanExempt(n ast.Node) bool {
	switch n.Kind {
	case ast.KindText:
		return true
	case ast.KindArray:
		return true
	case ast.KindObj:
		if n.Name == "pd" {
			return true
		}
		return registry.IsOrphanExempt(n.Name)
	default:
		return false
	}
}

func checkEmptySubpatch(acc *accumulator, c *ast.Canvas) {
	for _, child := range c.Children {
		if len(child.Nodes) == 0 {
			acc.add(SeverityWarning, EmptySubpatch, child.ID, nil, "subpatch %q has no nodes", child.Name)
		}
	}
}

func checkNoDSPSink(acc *accumulator, c *ast.Canvas, reg *registry.Registry) {
	hasAudio := false
	hasSink := false
	for _, n := range c.Nodes {
		if n.Kind != ast.KindObj {
			continue
		}
		if reg.IsAudio(n) {
			hasAudio = true
		}
		if registry.IsAudioSink(n.Name) {
			hasSink = true
		}
	}
	if hasAudio && !hasSink {
		acc.add(SeverityWarning, NoDSPSink, c.ID, nil, "canvas has audio-signal objects but no audio sink")
	}
}

func nodeLabel(n ast.Node) string {
	if n.Kind == ast.KindObj {
		return n.Name
	}
	return string(n.Kind)
}
