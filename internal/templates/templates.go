// Package templates implements the parameterized instrument-module builders
// of spec §4.6: one FromMap+Build pair per template, each turning a
// builder.Map parameter bundle into a builder.Fragment via the shared
// add()/wire() framework in internal/builder.
package templates

import (
	"github.com/Conceptual-Machines/patch-core/internal/builder"
	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
)

// Name identifies a template in the catalogue below.
type Name string

const (
	Synth       Name = "synth"
	Sequencer   Name = "sequencer"
	DrumMachine Name = "drummer"
	Mixer       Name = "mixer"
	Reverb      Name = "reverb"
	Clock       Name = "clock"
	Chaos       Name = "chaos"
	Maths       Name = "maths"
	Turing      Name = "turing"
	Granular    Name = "granular"
	Bridge      Name = "bridge"
)

// BuildFunc turns a raw parameter bundle into a Fragment, or an
// InvalidParam/UnknownTemplate contract error.
type BuildFunc func(params builder.Map) (*builder.Fragment, error)

var registry = map[Name]BuildFunc{
	Synth:       buildSynth,
	Sequencer:   buildSequencer,
	DrumMachine: buildDrumMachine,
	Mixer:       buildMixer,
	Reverb:      buildReverb,
	Clock:       buildClock,
	Chaos:       buildChaos,
	Maths:       buildMaths,
	Turing:      buildTuring,
	Granular:    buildGranular,
	Bridge:      buildBridge,
}

// Build dispatches to the named template's builder (spec §4.6: "Every
// template's contract is a parameter bundle -> Fragment").
func Build(name Name, params builder.Map) (*builder.Fragment, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, patcherr.UnknownTemplate(string(name))
	}
	return fn(params)
}

// Known reports whether name is a registered template, used by the
// composer to validate a ModuleSpec before building.
func Known(name Name) bool {
	_, ok := registry[name]
	return ok
}
