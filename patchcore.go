// Package patchcore is the public re-export surface of the patch-core
// library: parse, serialize, validate, analyze, build template fragments,
// and compose them into a rack, all as pure functions on their inputs
// (spec §5).
package patchcore

import (
	"github.com/Conceptual-Machines/patch-core/internal/analyzer"
	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
	"github.com/Conceptual-Machines/patch-core/internal/composer"
	"github.com/Conceptual-Machines/patch-core/internal/parser"
	"github.com/Conceptual-Machines/patch-core/internal/registry"
	"github.com/Conceptual-Machines/patch-core/internal/serializer"
	"github.com/Conceptual-Machines/patch-core/internal/templates"
	"github.com/Conceptual-Machines/patch-core/internal/validator"
)

// Re-exported types so callers never need to import internal/ packages
// directly.
type (
	Patch        = ast.Patch
	Canvas       = ast.Canvas
	Node         = ast.Node
	Connection   = ast.Connection
	Registry     = registry.Registry
	Fragment     = builder.Fragment
	Params       = builder.Map
	TemplateName = templates.Name

	ValidationResult = validator.Result
	ValidationIssue  = validator.Issue

	AnalysisReport = analyzer.Report

	ModuleSpec        = composer.ModuleSpec
	WireSpec          = composer.WireSpec
	ControllerConfig  = composer.ControllerConfig
	DeviceControl     = composer.DeviceControl
	ExplicitMapping   = composer.ExplicitMapping
	ControllerMapping = composer.ControllerMapping
	ComposeResult     = composer.Result
)

// Template name constants, re-exported for callers building a ModuleSpec.
const (
	Synth       = templates.Synth
	Sequencer   = templates.Sequencer
	DrumMachine = templates.DrumMachine
	Mixer       = templates.Mixer
	Reverb      = templates.Reverb
	Clock       = templates.Clock
	Chaos       = templates.Chaos
	Maths       = templates.Maths
	Turing      = templates.Turing
	Granular    = templates.Granular
	Bridge      = templates.Bridge
)

// NewRegistry builds the default ~100-entry object catalogue (spec §3.2).
func NewRegistry() *Registry { return registry.New() }

// Parse turns patch source text into a typed AST (spec §4.1).
func Parse(src string) (*Patch, error) { return parser.Parse(src) }

// Serialize renders a patch back to source text (spec §4.3).
func Serialize(p *Patch) string { return serializer.Serialize(p) }

// Validate runs the nine structural checks against a patch (spec §4.4).
func Validate(p *Patch, reg *Registry) ValidationResult { return validator.Validate(p, reg) }

// Analyze computes the signal-flow graph, topological order, DSP chains,
// and complexity score for every canvas in a patch (spec §4.4).
func Analyze(p *Patch, reg *Registry) *AnalysisReport { return analyzer.Analyze(p, reg) }

// BuildTemplate turns a parameter bundle into a Fragment for the named
// template (spec §4.6).
func BuildTemplate(name TemplateName, params Params) (*Fragment, error) {
	return templates.Build(name, params)
}

// Compose builds a rack of modules into individual and combined patches
// (spec §4.7).
func Compose(modules []ModuleSpec, wires []WireSpec, cfg ControllerConfig, dryRun bool) (*ComposeResult, error) {
	return composer.Compose(modules, wires, cfg, dryRun)
}
