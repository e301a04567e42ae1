package registry

import "github.com/Conceptual-Machines/patch-core/internal/ast"

// channelArgsOrDefaultTwo implements the "multi-channel audio I/O" special
// case from spec §4.2: zero args defaults to 2 channels, otherwise the
// port count equals the argument count.
func channelArgsOrDefaultTwo(args []ast.Token) int {
	if len(args) == 0 {
		return 2
	}
	return len(args)
}

// selectorOutlets implements "select"/"route": args.length+1, minimum 2 —
// the extra outlet is the no-match tail.
func selectorOutlets(args []ast.Token) int {
	n := len(args) + 1
	if n < 2 {
		return 2
	}
	return n
}

// packUnpackPorts implements "pack"/"unpack": max(args.length, 2) on the
// non-fixed side.
func packUnpackPorts(args []ast.Token) int {
	if len(args) < 2 {
		return 2
	}
	return len(args)
}

// triggerOutlets implements "trigger": max(args.length, 2).
func triggerOutlets(args []ast.Token) int {
	if len(args) < 2 {
		return 2
	}
	return len(args)
}

// defaultCatalogue is the ~100-entry static object catalogue (spec §1 item
// 2). It is organized by category; within a category, entries appear
// roughly in the order a patcher would reach for them.
func defaultCatalogue() []ObjectDef {
	return []ObjectDef{
		// ---- audio oscillators / generators ----
		{Name: "osc~", Category: "audio-gen", SignalType: Audio, Inlets: ArgsPlus(0, 2), Outlets: Fixed(1)},
		{Name: "phasor~", Category: "audio-gen", SignalType: Audio, Inlets: ArgsPlus(0, 2), Outlets: Fixed(1)},
		{Name: "noise~", Category: "audio-gen", SignalType: Audio, Inlets: Fixed(0), Outlets: Fixed(1)},
		{Name: "sig~", Category: "audio-gen", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "sqosc~", Aliases: []string{"square~"}, Category: "audio-gen", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},

		// ---- audio math ----
		{Name: "+~", Category: "audio-math", SignalType: Audio, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "-~", Category: "audio-math", SignalType: Audio, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "*~", Category: "audio-math", SignalType: Audio, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "/~", Category: "audio-math", SignalType: Audio, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "clip~", Category: "audio-math", SignalType: Audio, Inlets: Fixed(3), Outlets: Fixed(1)},

		// ---- audio filters ----
		{Name: "lop~", Category: "audio-filter", SignalType: Audio, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "hip~", Category: "audio-filter", SignalType: Audio, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "bp~", Category: "audio-filter", SignalType: Audio, Inlets: Fixed(3), Outlets: Fixed(1)},
		{Name: "vcf~", Category: "audio-filter", SignalType: Audio, Inlets: Fixed(3), Outlets: Fixed(2)},
		{Name: "biquad~", Category: "audio-filter", SignalType: Audio, Inlets: ArgsPlus(0, 6), Outlets: Fixed(1)},

		// ---- audio envelopes / control-to-audio ----
		{Name: "line~", Category: "audio-env", SignalType: Audio, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "vline~", Category: "audio-env", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "env~", Category: "audio-env", SignalType: Audio, Inlets: ArgsPlus(0, 1), Outlets: Fixed(1)},
		{Name: "snapshot~", Category: "audio-env", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},

		// ---- audio I/O (multi-channel special case) ----
		{Name: "dac~", Category: "audio-io", SignalType: Audio, Inlets: Custom(channelArgsOrDefaultTwo), Outlets: Fixed(0)},
		{Name: "adc~", Category: "audio-io", SignalType: Audio, Inlets: Fixed(0), Outlets: Custom(channelArgsOrDefaultTwo)},
		{Name: "readsf~", Category: "audio-io", SignalType: Audio, Inlets: Fixed(1), Outlets: Custom(func(a []ast.Token) int {
			n := channelArgsOrDefaultTwo(a)
			return n + 1 // + bang-on-done outlet
		})},
		{Name: "writesf~", Category: "audio-io", SignalType: Audio, Inlets: Custom(channelArgsOrDefaultTwo), Outlets: Fixed(0)},

		// ---- audio wireless / tables ----
		{Name: "throw~", Category: "audio-wireless", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "catch~", Category: "audio-wireless", SignalType: Audio, Inlets: Fixed(0), Outlets: Fixed(1)},
		{Name: "send~", Aliases: []string{"s~"}, Category: "audio-wireless", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "receive~", Aliases: []string{"r~"}, Category: "audio-wireless", SignalType: Audio, Inlets: Fixed(0), Outlets: Fixed(1)},
		{Name: "tabwrite~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "tabread~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "tabread4~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "tabplay~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(2)},
		{Name: "tabosc4~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "tabsend~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "delwrite~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "delread~", Category: "audio-table", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(1)},

		// ---- control math ----
		{Name: "+", Category: "control-math", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "-", Category: "control-math", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "*", Category: "control-math", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "/", Category: "control-math", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "mod", Category: "control-math", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "max", Category: "control-math", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "min", Category: "control-math", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "expr", Category: "control-math", SignalType: Control, Inlets: ArgsPlus(0, 1), Outlets: Fixed(1)},
		{Name: "mtof", Category: "control-math", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "ftom", Category: "control-math", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "abs", Category: "control-math", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "random", Category: "control-math", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},

		// ---- control routing (variable-arity special cases) ----
		{Name: "select", Aliases: []string{"sel"}, Category: "control-route", SignalType: Control, Inlets: Fixed(2), Outlets: Custom(selectorOutlets)},
		{Name: "route", Category: "control-route", SignalType: Control, Inlets: Fixed(2), Outlets: Custom(selectorOutlets)},
		{Name: "spigot", Category: "control-route", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "moses", Category: "control-route", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(2)},
		{Name: "trigger", Aliases: []string{"t"}, Category: "control-route", SignalType: Control, Inlets: Fixed(1), Outlets: Custom(triggerOutlets)},
		{Name: "pack", Category: "control-route", SignalType: Control, Inlets: Custom(packUnpackPorts), Outlets: Fixed(1)},
		{Name: "unpack", Category: "control-route", SignalType: Control, Inlets: Fixed(1), Outlets: Custom(packUnpackPorts)},
		{Name: "pipe", Category: "control-route", SignalType: Control, Inlets: ArgsPlus(0, 2), Outlets: ArgsPlus(-1, 1)},
		{Name: "swap", Category: "control-route", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(2)},

		// ---- control timing ----
		{Name: "metro", Category: "control-time", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "delay", Aliases: []string{"del"}, Category: "control-time", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "line", Category: "control-time", SignalType: Control, Inlets: Fixed(3), Outlets: Fixed(1)},
		{Name: "timer", Category: "control-time", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "clocked", Category: "control-time", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},

		// ---- control data / boxes ----
		{Name: "float", Aliases: []string{"f"}, Category: "control-data", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "int", Aliases: []string{"i"}, Category: "control-data", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "symbol", Category: "control-data", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(1)},
		{Name: "list", Category: "control-data", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "change", Category: "control-data", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "value", Aliases: []string{"v"}, Category: "control-data", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "table", Category: "control-data", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "tabread", Category: "control-data", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "tabwrite", Category: "control-data", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(0)},

		// ---- fire-and-forget / wireless control ----
		{Name: "print", Category: "control-io", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "send", Aliases: []string{"s"}, Category: "control-wireless", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "receive", Aliases: []string{"r"}, Category: "control-wireless", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(1)},
		{Name: "loadbang", Category: "control-io", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(1)},
		{Name: "bang", Aliases: []string{"b"}, Category: "control-io", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},

		// ---- MIDI ----
		{Name: "notein", Category: "midi-in", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(3)},
		{Name: "noteout", Category: "midi-out", SignalType: Control, Inlets: Fixed(3), Outlets: Fixed(0)},
		{Name: "ctlin", Category: "midi-in", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(3)},
		{Name: "ctlout", Category: "midi-out", SignalType: Control, Inlets: Fixed(3), Outlets: Fixed(0)},
		{Name: "pgmin", Category: "midi-in", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(2)},
		{Name: "pgmout", Category: "midi-out", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(0)},
		{Name: "bendin", Category: "midi-in", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(2)},
		{Name: "bendout", Category: "midi-out", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(0)},
		{Name: "touchin", Category: "midi-in", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(2)},
		{Name: "touchout", Category: "midi-out", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(0)},
		{Name: "midiin", Category: "midi-in", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(2)},
		{Name: "midiout", Category: "midi-out", SignalType: Control, Inlets: Fixed(2), Outlets: Fixed(0)},

		// ---- GUI ----
		{Name: "bng", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "tgl", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "nbx", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "hsl", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "vsl", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "hradio", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "vradio", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "vu", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "cnv", Category: "gui", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},

		// ---- subpatch plumbing (resolved dynamically by resolveSubpatchPorts) ----
		{Name: "inlet", Category: "io-pin", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(1)},
		{Name: "inlet~", Category: "io-pin", SignalType: Audio, Inlets: Fixed(0), Outlets: Fixed(1)},
		{Name: "outlet", Category: "io-pin", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(0)},
		{Name: "outlet~", Category: "io-pin", SignalType: Audio, Inlets: Fixed(1), Outlets: Fixed(0)},

		// ---- misc data ----
		{Name: "soundfiler", Category: "data", SignalType: Control, Inlets: Fixed(1), Outlets: Fixed(1)},
		{Name: "pd", Category: "subpatch", SignalType: Control, Inlets: Fixed(0), Outlets: Fixed(0)}, // resolved dynamically
	}
}

// audioSources is the static set of audio source object names used by the
// analyzer's DSP-chain DFS (spec §4.4, "a static set of audio sources").
var audioSources = map[string]bool{
	"osc~": true, "phasor~": true, "noise~": true, "adc~": true,
	"readsf~": true, "tabplay~": true, "tabread~": true, "tabread4~": true,
	"sig~": true, "catch~": true, "receive~": true, "sqosc~": true,
}

// audioSinks is the static set of audio sink object names (spec §4.4's DSP
// chain DFS termination set, and §4.4's NO_DSP_SINK check).
var audioSinks = map[string]bool{
	"dac~": true, "writesf~": true, "throw~": true, "outlet~": true,
}

func IsAudioSource(name string) bool { return audioSources[name] }
func IsAudioSink(name string) bool   { return audioSinks[name] }

// orphanExempt is the fixed exception set from spec §4.4's ORPHAN_OBJECT
// check: objects that are legitimately disconnected.
var orphanExempt = map[string]bool{
	"send": true, "s": true, "receive": true, "r": true,
	"send~": true, "s~": true, "receive~": true, "r~": true,
	"throw~": true, "catch~": true,
	"table": true, "array": true,
	"print": true, "loadbang": true,
	"bng": true, "tgl": true, "nbx": true, "hsl": true, "vsl": true,
	"hradio": true, "vradio": true, "vu": true, "cnv": true,
}

// IsOrphanExempt reports whether an obj/array node's name is in the fixed
// exception set of legitimately-disconnected object kinds. "pd" nodes and
// "text" comments are exempted separately by the validator, not here.
func IsOrphanExempt(name string) bool { return orphanExempt[name] }

// tableReferencing is the set of obj names whose first argument names a
// data array, used by the composer's global-name dedup pass (spec §9,
// "Global-name collisions").
var tableReferencing = map[string]bool{
	"tabwrite~": true, "tabread~": true, "tabread4~": true,
	"tabplay~": true, "tabosc4~": true, "tabsend~": true, "table": true,
	"delwrite~": true, "delread~": true, "tabread": true, "tabwrite": true,
}

func IsTableReferencing(name string) bool { return tableReferencing[name] }

// LegacyAliases is the alias table described in SPEC_FULL.md's "Legacy
// voice aliasing" supplement: surface names accepted for backward
// compatibility. The drum machine template resolves its voice names through
// it; Registry.Canonical does not consult it.
var LegacyAliases = map[string]string{
	"hh": "ch", // legacy drum-machine voice name -> current canonical "ch"
}

// ResolveLegacyAlias follows LegacyAliases, returning name unchanged if it
// has no legacy mapping.
func ResolveLegacyAlias(name string) string {
	if canon, ok := LegacyAliases[name]; ok {
		return canon
	}
	return name
}
