package templates

import (
	"fmt"

	"github.com/Conceptual-Machines/patch-core/internal/builder"
)

var defaultDivisions = []int{1, 2, 4, 8}

type clockParams struct {
	bpm       float64
	divisions []int
}

func fromMapClock(m builder.Map) (clockParams, error) {
	var p clockParams
	var err error
	if p.bpm, err = builder.PositiveFloat("bpm", m["bpm"], 120); err != nil {
		return p, err
	}
	if p.divisions, err = builder.IntList("divisions", m["divisions"], defaultDivisions); err != nil {
		return p, err
	}
	return p, nil
}

// buildClock assembles §4.6.6: a base 16th-note metro drives a master
// counter; each division gets a selector matching counter values at that
// division's stride, emitting a bang on beat_divN.
func buildClock(m builder.Map) (*builder.Fragment, error) {
	p, err := fromMapClock(m)
	if err != nil {
		return nil, err
	}

	b := builder.New()

	loadbang := b.Add(builder.Obj("loadbang"))
	startMsg := b.Add(builder.Msg(builder.Num(1)))
	b.Wire(loadbang, startMsg)

	interval := 60000.0 / p.bpm / 4
	metro := b.Add(builder.Obj("metro", builder.Num(interval)))
	b.Wire(startMsg, metro)

	counter := b.Add(builder.Obj("float"))
	incr := b.Add(builder.Obj("+", builder.Num(1)))
	mod := b.Add(builder.Obj("mod", builder.Num(4096)))
	b.Wire(metro, counter)
	b.Wire(counter, incr)
	b.Wire(incr, mod)
	b.Wire(mod, counter, 0, 1)

	var ports []builder.Port
	for _, div := range p.divisions {
		modDiv := b.Add(builder.Obj("mod", builder.Num(float64(div))))
		b.Wire(mod, modDiv)
		sel := b.Add(builder.Obj("select", builder.Num(0)))
		b.Wire(modDiv, sel)
		outName := fmt.Sprintf("beat_div%d", div)
		out := b.Add(builder.Obj("outlet", builder.Sym(outName)))
		b.Wire(sel, out, 0)
		ports = append(ports, builder.Port{Name: outName, SignalType: builder.Control, Direction: builder.Output, NodeIndex: sel, PortIndex: 0, IoNodeIndex: builder.IntPtr(out)})
	}

	return &builder.Fragment{Spec: b.Spec(), Ports: ports}, nil
}
