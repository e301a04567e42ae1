package templates

import (
	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
)

var cMajorScale = []int{60, 62, 64, 65, 67, 69, 71, 72}

type sequencerParams struct {
	steps               int
	bpm                 float64
	notes               []int
	midiChannel         int
	velocity            int
}

func fromMapSequencer(m builder.Map) (sequencerParams, error) {
	var p sequencerParams
	var err error
	if p.steps, err = builder.IntRange("steps", m["steps"], 8, 1, 64); err != nil {
		return p, err
	}
	if p.bpm, err = builder.PositiveFloat("bpm", m["bpm"], 120); err != nil {
		return p, err
	}
	if p.notes, err = builder.IntList("notes", m["notes"], cMajorScale); err != nil {
		return p, err
	}
	if p.midiChannel, err = builder.IntRange("midiChannel", m["midiChannel"], 1, 1, 16); err != nil {
		return p, err
	}
	if p.velocity, err = builder.IntRange("velocity", m["velocity"], 100, 0, 127); err != nil {
		return p, err
	}
	return p, nil
}

// buildSequencer assembles §4.6.2: loadbang -> metro -> counter -> per-step
// selector -> per-step note message -> pack -> MIDI note output.
func buildSequencer(m builder.Map) (*builder.Fragment, error) {
	p, err := fromMapSequencer(m)
	if err != nil {
		return nil, err
	}

	b := builder.New()

	loadbang := b.Add(builder.Obj("loadbang"))
	startMsg := b.Add(builder.Msg(builder.Num(1)))
	b.Wire(loadbang, startMsg)

	interval := 60000.0 / p.bpm
	metro := b.Add(builder.Obj("metro", builder.Num(interval)))
	b.Wire(startMsg, metro)

	clockIn := b.Add(builder.Obj("inlet", builder.Sym("clock_in")))

	counterFloat := b.Add(builder.Obj("float"))
	b.Wire(metro, counterFloat)
	b.Wire(clockIn, counterFloat)

	incr := b.Add(builder.Obj("+", builder.Num(1)))
	b.Wire(counterFloat, incr)

	modN := b.Add(builder.Obj("mod", builder.Num(float64(p.steps))))
	b.Wire(incr, modN)
	b.Wire(modN, counterFloat, 0, 1) // feedback into the float's cold inlet

	sel := b.Add(builder.Obj("select", intTokens(p.steps)...))
	b.Wire(modN, sel)

	pack := b.Add(builder.Obj("pack", builder.Num(0), builder.Num(0), builder.Num(0)))

	for step := 0; step < p.steps; step++ {
		note := p.notes[step%len(p.notes)]
		stepMsg := b.Add(builder.Msg(builder.Num(float64(note)), builder.Num(float64(p.velocity)), builder.Num(float64(p.midiChannel))))
		b.Wire(sel, stepMsg, step)
		b.Wire(stepMsg, pack)
	}

	noteOut := b.Add(builder.Obj("outlet", builder.Sym("note")))
	b.Wire(pack, noteOut)

	ports := []builder.Port{
		{Name: "note", SignalType: builder.Control, Direction: builder.Output, NodeIndex: pack, PortIndex: 0, IoNodeIndex: builder.IntPtr(noteOut)},
		{Name: "clock_in", SignalType: builder.Control, Direction: builder.Input, NodeIndex: counterFloat, PortIndex: 0, IoNodeIndex: builder.IntPtr(clockIn)},
	}

	return &builder.Fragment{Spec: b.Spec(), Ports: ports}, nil
}

func intTokens(n int) []ast.Token {
	out := make([]ast.Token, n)
	for i := 0; i < n; i++ {
		out[i] = builder.Num(float64(i))
	}
	return out
}
