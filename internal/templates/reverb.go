package templates

import "github.com/Conceptual-Machines/patch-core/internal/builder"

type reverbParams struct {
	variant            string
	roomSize, damping, wetDry float64
}

func fromMapReverb(m builder.Map) (reverbParams, error) {
	var p reverbParams
	var err error
	if p.variant, err = builder.Enum("variant", m["variant"], []string{"schroeder", "simple"}, "simple", "", ""); err != nil {
		return p, err
	}
	if p.roomSize, err = builder.FloatRange("roomSize", m["roomSize"], 0.5, 0, 1); err != nil {
		return p, err
	}
	if p.damping, err = builder.FloatRange("damping", m["damping"], 0.5, 0, 1); err != nil {
		return p, err
	}
	if p.wetDry, err = builder.FloatRange("wetDry", m["wetDry"], 0.3, 0, 1); err != nil {
		return p, err
	}
	return p, nil
}

// buildReverb assembles §4.6.5. simple: one feedback delay line with
// lowpass damping and dry/wet mix. schroeder: two parallel combs summed,
// then one allpass, with parameters scaling delay length and feedback.
func buildReverb(m builder.Map) (*builder.Fragment, error) {
	p, err := fromMapReverb(m)
	if err != nil {
		return nil, err
	}

	b := builder.New()
	in := b.Add(builder.Obj("inlet~", builder.Sym("audio_in")))

	var wet int
	if p.variant == "schroeder" {
		wet = buildSchroeder(b, in, p.roomSize, p.damping)
	} else {
		wet = buildSimpleDelay(b, in, p.roomSize, p.damping)
	}

	dryMsg := b.Add(builder.Msg(builder.Num(1 - p.wetDry)))
	dryGain := b.Add(builder.Obj("*~"))
	b.Wire(in, dryGain)
	b.Wire(dryMsg, dryGain, 0, 1)

	wetMsg := b.Add(builder.Msg(builder.Num(p.wetDry)))
	wetGain := b.Add(builder.Obj("*~"))
	b.Wire(wet, wetGain)
	b.Wire(wetMsg, wetGain, 0, 1)

	mix := b.Add(builder.Obj("+~"))
	b.Wire(dryGain, mix)
	b.Wire(wetGain, mix, 0, 1)

	dac := b.Add(builder.Obj("dac~"))
	b.Wire(mix, dac)

	ports := []builder.Port{
		{Name: "audio_in", SignalType: builder.Audio, Direction: builder.Input, NodeIndex: dryGain, PortIndex: 0, IoNodeIndex: builder.IntPtr(in)},
		{Name: "audio", SignalType: builder.Audio, Direction: builder.Output, NodeIndex: mix, PortIndex: 0, IoNodeIndex: builder.IntPtr(dac)},
	}
	params := []builder.ParameterDescriptor{
		{Name: "roomSize", Label: "Room size", Min: 0, Max: 1, Default: p.roomSize, Curve: builder.Linear, Category: "misc"},
		{Name: "damping", Label: "Damping", Min: 0, Max: 1, Default: p.damping, Curve: builder.Linear, Category: "filter"},
		{Name: "wetDry", Label: "Wet/dry", Min: 0, Max: 1, Default: p.wetDry, Curve: builder.Linear, Category: "misc", TargetNodeIndex: wetMsg, TargetInlet: 0},
	}
	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}

func buildSimpleDelay(b *builder.Builder, in int, roomSize, damping float64) int {
	delayMs := 20 + roomSize*180
	delWrite := b.Add(builder.Obj("delwrite~", builder.Sym("revdel"), builder.Num(300)))
	feedback := b.Add(builder.Obj("*~"))
	sum := b.Add(builder.Obj("+~"))
	b.Wire(in, sum)

	delRead := b.Add(builder.Obj("delread~", builder.Sym("revdel"), builder.Num(delayMs)))
	lop := b.Add(builder.Obj("lop~", builder.Num(2000-damping*1800)))
	b.Wire(delRead, lop)
	b.Wire(lop, feedback)

	feedbackMsg := b.Add(builder.Msg(builder.Num(0.3 + roomSize*0.5)))
	b.Wire(feedbackMsg, feedback, 0, 1)
	b.Wire(feedback, sum, 0, 1)
	b.Wire(sum, delWrite)
	return lop
}

func buildSchroeder(b *builder.Builder, in int, roomSize, damping float64) int {
	comb1 := buildComb(b, in, 29.7+roomSize*10, damping, "comb1")
	comb2 := buildComb(b, in, 37.1+roomSize*10, damping, "comb2")
	combSum := b.Add(builder.Obj("+~"))
	b.Wire(comb1, combSum)
	b.Wire(comb2, combSum, 0, 1)

	apDelWrite := b.Add(builder.Obj("delwrite~", builder.Sym("revap"), builder.Num(50)))
	b.Wire(combSum, apDelWrite)
	apDelRead := b.Add(builder.Obj("delread~", builder.Sym("revap"), builder.Num(5)))
	apGainMsg := b.Add(builder.Msg(builder.Num(0.7)))
	apGain := b.Add(builder.Obj("*~"))
	b.Wire(apDelRead, apGain)
	b.Wire(apGainMsg, apGain, 0, 1)
	apSum := b.Add(builder.Obj("+~"))
	b.Wire(combSum, apSum)
	b.Wire(apGain, apSum, 0, 1)
	return apSum
}

func buildComb(b *builder.Builder, in int, delayMs, damping float64, tableName string) int {
	write := b.Add(builder.Obj("delwrite~", builder.Sym(tableName), builder.Num(100)))
	sum := b.Add(builder.Obj("+~"))
	b.Wire(in, sum)

	read := b.Add(builder.Obj("delread~", builder.Sym(tableName), builder.Num(delayMs)))
	lop := b.Add(builder.Obj("lop~", builder.Num(3000-damping*2500)))
	b.Wire(read, lop)

	feedbackMsg := b.Add(builder.Msg(builder.Num(0.6)))
	feedback := b.Add(builder.Obj("*~"))
	b.Wire(lop, feedback)
	b.Wire(feedbackMsg, feedback, 0, 1)
	b.Wire(feedback, sum, 0, 1)
	b.Wire(sum, write)
	return lop
}
