// Package registry is the static object catalogue and port resolver (spec
// §3.2, §4.2). It is initialized once per process and read-only afterward —
// there is no mutable registry state, so resolution is a pure function of
// (object name, args).
package registry

import (
	"sort"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
)

// SignalType tags an object as operating on audio-rate or control-rate data.
type SignalType string

const (
	Audio   SignalType = "audio"
	Control SignalType = "control"
)

// RuleKind tags a PortCountRule's variant.
type RuleKind int

const (
	RuleFixed RuleKind = iota
	RuleArgsPlus
	RuleCustom
)

// PortCountRule is the tagged union described in spec §3.2.
type PortCountRule struct {
	Kind RuleKind

	// RuleFixed
	N int

	// RuleArgsPlus: max(argCount + Offset, Min)
	Offset int
	Min    int

	// RuleCustom
	Fn func(args []ast.Token) int
}

// Fixed constructs a constant port-count rule.
func Fixed(n int) PortCountRule { return PortCountRule{Kind: RuleFixed, N: n} }

// ArgsPlus constructs a PortCountRule computing max(argCount+offset, min).
func ArgsPlus(offset, min int) PortCountRule {
	return PortCountRule{Kind: RuleArgsPlus, Offset: offset, Min: min}
}

// Custom constructs a PortCountRule backed by an arbitrary function of args.
func Custom(fn func(args []ast.Token) int) PortCountRule {
	return PortCountRule{Kind: RuleCustom, Fn: fn}
}

// Resolve computes the port count a rule yields for the given args.
func (r PortCountRule) Resolve(args []ast.Token) int {
	switch r.Kind {
	case RuleFixed:
		return r.N
	case RuleArgsPlus:
		n := len(args) + r.Offset
		if n < r.Min {
			return r.Min
		}
		return n
	case RuleCustom:
		return r.Fn(args)
	default:
		return 0
	}
}

// ObjectDef is a catalogue entry keyed by canonical object name (spec §3.2).
type ObjectDef struct {
	Name       string
	Aliases    []string
	Category   string
	SignalType SignalType
	Inlets     PortCountRule
	Outlets    PortCountRule
	// DefaultInlets/DefaultOutlets are the port counts when args is empty,
	// for callers that need a count without a concrete node; register fills
	// them in from Inlets.Resolve(nil) / Outlets.Resolve(nil).
	DefaultInlets  int
	DefaultOutlets int
}

// PortCounts is the result of resolvePortCounts.
type PortCounts struct {
	Inlets, Outlets int
}

// Registry is the read-only object catalogue. The zero value is not usable;
// construct with New().
type Registry struct {
	byName map[string]*ObjectDef
	alias  map[string]string // surface name -> canonical name
}

// New builds the registry's catalogue and §4.2's alias map. Port counts of
// non-obj nodes are fixed by kind inside ResolvePortCounts.
func New() *Registry {
	r := &Registry{
		byName: make(map[string]*ObjectDef),
		alias:  make(map[string]string),
	}
	for _, def := range defaultCatalogue() {
		r.register(def)
	}
	return r
}

func (r *Registry) register(def ObjectDef) {
	d := def
	d.DefaultInlets = d.Inlets.Resolve(nil)
	d.DefaultOutlets = d.Outlets.Resolve(nil)
	r.byName[d.Name] = &d
	for _, a := range d.Aliases {
		r.alias[a] = d.Name
	}
}

// Canonical resolves a surface name (alias or canonical) to its canonical
// registry name. ok is false if name is registered nowhere.
func (r *Registry) Canonical(name string) (string, bool) {
	if canon, ok := r.alias[name]; ok {
		name = canon
	}
	_, ok := r.byName[name]
	return name, ok
}

// Lookup returns the ObjectDef for a surface-or-canonical name.
func (r *Registry) Lookup(name string) (*ObjectDef, bool) {
	canon, ok := r.Canonical(name)
	if !ok {
		return nil, false
	}
	return r.byName[canon], true
}

// IsAudio reports whether an obj node's canonical definition is audio-typed.
// Unregistered names are treated as control (spec §4.4 analyzer: "audio when
// both endpoints are audio-signal objects by registry lookup, else control").
func (r *Registry) IsAudio(n ast.Node) bool {
	if n.Kind != ast.KindObj {
		return false
	}
	def, ok := r.Lookup(n.Name)
	return ok && def.SignalType == Audio
}

// ResolvePortCounts implements spec §4.2's resolvePortCounts. The ok return
// is false only for unregistered obj names — everything else always
// resolves (non-obj kinds via the fixed table below).
func (r *Registry) ResolvePortCounts(n ast.Node) (PortCounts, bool) {
	switch n.Kind {
	case ast.KindMsg, ast.KindFloatAtom, ast.KindSymbolAtom:
		return PortCounts{Inlets: 1, Outlets: 1}, true
	case ast.KindText, ast.KindArray:
		return PortCounts{Inlets: 0, Outlets: 0}, true
	case ast.KindObj:
		def, ok := r.Lookup(n.Name)
		if !ok {
			return PortCounts{}, false
		}
		return PortCounts{
			Inlets:  def.Inlets.Resolve(n.Args),
			Outlets: def.Outlets.Resolve(n.Args),
		}, true
	default:
		return PortCounts{}, false
	}
}

// ResolveSubpatchPorts counts inlet/inlet~ and outlet/outlet~ objects among
// a canvas's nodes (spec §4.2, used by the validator to score connections
// into/out of "pd" nodes).
func (r *Registry) ResolveSubpatchPorts(c *ast.Canvas) PortCounts {
	var pc PortCounts
	for _, n := range c.Nodes {
		if n.Kind != ast.KindObj {
			continue
		}
		switch n.Name {
		case "inlet", "inlet~":
			pc.Inlets++
		case "outlet", "outlet~":
			pc.Outlets++
		}
	}
	return pc
}

// All returns every registered canonical ObjectDef, sorted by name, for
// tooling that needs to enumerate the catalogue (tests, documentation).
func (r *Registry) All() []*ObjectDef {
	out := make([]*ObjectDef, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
