package templates

import (
	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
)

func arrayNode(name string, size int) ast.Node {
	return ast.Node{Kind: ast.KindArray, Name: name, ArraySize: size, ArrayType: "float", ArrayFlags: "black"}
}

// buildChaos assembles a logistic-map iterator (spec §4.6.7): a metro
// drives a feedback expression x_{n+1} = r*x_n*(1-x_n), r controllable as a
// parameter.
func buildChaos(m builder.Map) (*builder.Fragment, error) {
	rate, err := builder.PositiveFloat("rate", m["rate"], 50)
	if err != nil {
		return nil, err
	}
	r, err := builder.FloatRange("r", m["r"], 3.7, 0, 4)
	if err != nil {
		return nil, err
	}
	seed, err := builder.FloatRange("seed", m["seed"], 0.5, 0, 1)
	if err != nil {
		return nil, err
	}

	b := builder.New()
	loadbang := b.Add(builder.Obj("loadbang"))
	seedMsg := b.Add(builder.Msg(builder.Num(seed)))
	b.Wire(loadbang, seedMsg)

	state := b.Add(builder.Obj("float"))
	b.Wire(seedMsg, state)

	metro := b.Add(builder.Obj("metro", builder.Num(rate)))
	b.Wire(metro, state)

	rMsg := b.Add(builder.Msg(builder.Num(r)))
	expr := b.Add(builder.Obj("expr", builder.Sym("$f2*$f1*(1-$f1)")))
	b.Wire(state, expr)
	b.Wire(rMsg, expr, 0, 1)
	b.Wire(expr, state, 0, 1)

	out := b.Add(builder.Obj("outlet", builder.Sym("value")))
	b.Wire(expr, out)

	ports := []builder.Port{
		{Name: "value", SignalType: builder.Control, Direction: builder.Output, NodeIndex: expr, PortIndex: 0, IoNodeIndex: builder.IntPtr(out)},
	}
	params := []builder.ParameterDescriptor{
		{Name: "r", Label: "Chaos parameter", Min: 0, Max: 4, Default: r, Curve: builder.Linear, Category: "misc", TargetNodeIndex: rMsg, TargetInlet: 0},
	}
	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}

// buildMaths assembles a rise/fall/cycle function generator (spec §4.6.7):
// a bang on the trigger inlet drives a control-rate line ramp up over the
// rise time and back down over the fall time; with cycle set, a delay of
// rise+fall re-fires the trigger.
func buildMaths(m builder.Map) (*builder.Fragment, error) {
	riseMs, err := builder.PositiveFloat("rise", m["rise"], 100)
	if err != nil {
		return nil, err
	}
	fallMs, err := builder.PositiveFloat("fall", m["fall"], 200)
	if err != nil {
		return nil, err
	}
	cycle, err := builder.Bool("cycle", m["cycle"], false)
	if err != nil {
		return nil, err
	}

	b := builder.New()
	trigIn := b.Add(builder.Obj("inlet", builder.Sym("trigger")))

	riseMsg := b.Add(builder.Msg(builder.Num(1), builder.Num(riseMs)))
	fallMsg := b.Add(builder.Msg(builder.Num(0), builder.Num(fallMs), builder.Num(riseMs)))
	b.Wire(trigIn, riseMsg)
	b.Wire(trigIn, fallMsg)

	ramp := b.Add(builder.Obj("line"))
	b.Wire(riseMsg, ramp)
	b.Wire(fallMsg, ramp)

	if cycle {
		delay := b.Add(builder.Obj("delay", builder.Num(riseMs+fallMs)))
		b.Wire(trigIn, delay)
		b.Wire(delay, trigIn)
	}

	out := b.Add(builder.Obj("outlet", builder.Sym("value")))
	b.Wire(ramp, out)

	ports := []builder.Port{
		{Name: "trigger", SignalType: builder.Control, Direction: builder.Input, NodeIndex: trigIn, PortIndex: 0},
		{Name: "value", SignalType: builder.Control, Direction: builder.Output, NodeIndex: ramp, PortIndex: 0, IoNodeIndex: builder.IntPtr(out)},
	}
	params := []builder.ParameterDescriptor{
		{Name: "rise", Label: "Rise time", Min: 1, Max: 10000, Default: riseMs, Unit: "ms", Curve: builder.Exponential, Category: "misc", TargetNodeIndex: riseMsg, TargetInlet: 1},
		{Name: "fall", Label: "Fall time", Min: 1, Max: 10000, Default: fallMs, Unit: "ms", Curve: builder.Exponential, Category: "misc", TargetNodeIndex: fallMsg, TargetInlet: 1},
	}
	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}

// buildTuring assembles a Turing-machine probabilistic shift register (spec
// §4.6.7): a named data array holds the register contents, random decides
// whether a step flips, and a threshold gates the write-back.
func buildTuring(m builder.Map) (*builder.Fragment, error) {
	length, err := builder.IntRange("length", m["length"], 8, 1, 64)
	if err != nil {
		return nil, err
	}
	probability, err := builder.FloatRange("probability", m["probability"], 0.5, 0, 1)
	if err != nil {
		return nil, err
	}

	b := builder.New()
	arrayName := "turing_register"
	b.Add(arrayNode(arrayName, length))

	clockIn := b.Add(builder.Obj("inlet", builder.Sym("clock_in")))
	index := b.Add(builder.Obj("float"))
	incr := b.Add(builder.Obj("+", builder.Num(1)))
	mod := b.Add(builder.Obj("mod", builder.Num(float64(length))))
	b.Wire(clockIn, index)
	b.Wire(index, incr)
	b.Wire(incr, mod)
	b.Wire(mod, index, 0, 1)

	tabread := b.Add(builder.Obj("tabread", builder.Sym(arrayName)))
	b.Wire(mod, tabread)

	rnd := b.Add(builder.Obj("random", builder.Num(1000)))
	b.Wire(clockIn, rnd)
	probMsg := b.Add(builder.Msg(builder.Num(probability * 1000)))
	flip := b.Add(builder.Obj("moses"))
	b.Wire(rnd, flip)
	b.Wire(probMsg, flip, 0, 1)

	// moses' high outlet (value >= threshold) fires the flip; pack it with
	// the current index and write it back into the register.
	flipBang := b.Add(builder.Obj("t", builder.Sym("bang")))
	b.Wire(flip, flipBang, 1)
	flippedVal := b.Add(builder.Obj("-", builder.Num(1)))
	b.Wire(tabread, flippedVal)
	b.Wire(flipBang, flippedVal)

	packIdx := b.Add(builder.Obj("pack", builder.Num(0), builder.Num(0)))
	b.Wire(flippedVal, packIdx)
	b.Wire(mod, packIdx, 0, 1)
	tabwrite := b.Add(builder.Obj("tabwrite", builder.Sym(arrayName)))
	b.Wire(packIdx, tabwrite)

	out := b.Add(builder.Obj("outlet", builder.Sym("step")))
	b.Wire(tabread, out)

	ports := []builder.Port{
		{Name: "clock_in", SignalType: builder.Control, Direction: builder.Input, NodeIndex: clockIn, PortIndex: 0},
		{Name: "step", SignalType: builder.Control, Direction: builder.Output, NodeIndex: tabread, PortIndex: 0, IoNodeIndex: builder.IntPtr(out)},
	}
	params := []builder.ParameterDescriptor{
		{Name: "probability", Label: "Flip probability", Min: 0, Max: 1, Default: probability, Curve: builder.Linear, Category: "misc", TargetNodeIndex: probMsg, TargetInlet: 0},
	}
	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}

// buildGranular assembles a circular audio buffer with N playback heads at
// variable pitch and windowed envelopes (spec §4.6.7).
func buildGranular(m builder.Map) (*builder.Fragment, error) {
	heads, err := builder.IntRange("heads", m["heads"], 4, 1, 16)
	if err != nil {
		return nil, err
	}
	grainMs, err := builder.PositiveFloat("grainSize", m["grainSize"], 80)
	if err != nil {
		return nil, err
	}
	pitch, err := builder.PositiveFloat("pitch", m["pitch"], 1)
	if err != nil {
		return nil, err
	}

	b := builder.New()
	arrayName := "granular_buffer"
	b.Add(arrayNode(arrayName, 44100))

	in := b.Add(builder.Obj("inlet~", builder.Sym("audio_in")))
	write := b.Add(builder.Obj("tabwrite~", builder.Sym(arrayName)))
	b.Wire(in, write)

	var sum int
	first := true
	for h := 0; h < heads; h++ {
		b.NextColumn()
		metro := b.Add(builder.Obj("metro", builder.Num(grainMs/float64(heads))))
		loadbang := b.Add(builder.Obj("loadbang"))
		startMsg := b.Add(builder.Msg(builder.Num(1)))
		b.Wire(loadbang, startMsg)
		b.Wire(startMsg, metro)

		envMsg := b.Add(builder.Msg(builder.Num(0), builder.Sym(","), builder.Num(1), builder.Num(grainMs/2), builder.Sym(","), builder.Num(0), builder.Num(grainMs/2), builder.Num(grainMs/2)))
		b.Wire(metro, envMsg)
		envRamp := b.Add(builder.Obj("vline~"))
		b.Wire(envMsg, envRamp)

		read := b.Add(builder.Obj("tabosc4~", builder.Num(pitch)))
		play := b.Add(builder.Obj("*~"))
		b.Wire(read, play)
		b.Wire(envRamp, play, 0, 1)

		if first {
			sum = play
			first = false
		} else {
			adder := b.Add(builder.Obj("+~"))
			b.Wire(sum, adder)
			b.Wire(play, adder, 0, 1)
			sum = adder
		}
	}

	out := b.Add(builder.Obj("outlet~", builder.Sym("audio")))
	b.Wire(sum, out)

	ports := []builder.Port{
		{Name: "audio_in", SignalType: builder.Audio, Direction: builder.Input, NodeIndex: write, PortIndex: 0, IoNodeIndex: builder.IntPtr(in)},
		{Name: "audio", SignalType: builder.Audio, Direction: builder.Output, NodeIndex: sum, PortIndex: 0, IoNodeIndex: builder.IntPtr(out)},
	}
	params := []builder.ParameterDescriptor{
		{Name: "pitch", Label: "Pitch ratio", Min: 0.1, Max: 4, Default: pitch, Curve: builder.Exponential, Category: "frequency"},
	}
	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}
