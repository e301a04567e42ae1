package templates

import (
	"github.com/Conceptual-Machines/patch-core/internal/builder"
)

// synthParams is the resolved parameter bundle for §4.6.1.
type synthParams struct {
	waveform string
	filter   string
	frequency, cutoff, amplitude float64
	envelope string
	attack, decay, sustain, release float64
}

func fromMapSynth(m builder.Map) (synthParams, error) {
	var p synthParams
	var err error
	if p.waveform, err = builder.Enum("waveform", m["waveform"],
		[]string{"sine", "saw", "square", "noise"}, "saw", "", ""); err != nil {
		return p, err
	}
	if p.filter, err = builder.Enum("filter", m["filter"],
		[]string{"lowpass", "highpass", "bandpass", "moog", "korg"}, "lowpass", "", ""); err != nil {
		return p, err
	}
	if p.frequency, err = builder.PositiveFloat("frequency", m["frequency"], 440); err != nil {
		return p, err
	}
	if p.cutoff, err = builder.PositiveFloat("cutoff", m["cutoff"], 1000); err != nil {
		return p, err
	}
	if p.amplitude, err = builder.FloatRange("amplitude", m["amplitude"], 0.7, 0, 1); err != nil {
		return p, err
	}
	if p.envelope, err = builder.Enum("envelope", m["envelope"],
		[]string{"adsr", "ar", "decay", "none"}, "none", "", ""); err != nil {
		return p, err
	}
	envParams, _ := m["envelopeParams"].(map[string]any)
	p.attack, err = builder.PositiveFloat("envelopeParams.attack", envParams["attack"], 10)
	if err != nil {
		return p, err
	}
	p.decay, err = builder.PositiveFloat("envelopeParams.decay", envParams["decay"], 100)
	if err != nil {
		return p, err
	}
	p.sustain, err = builder.FloatRange("envelopeParams.sustain", envParams["sustain"], 0.7, 0, 1)
	if err != nil {
		return p, err
	}
	p.release, err = builder.PositiveFloat("envelopeParams.release", envParams["release"], 200)
	if err != nil {
		return p, err
	}
	return p, nil
}

// buildSynth assembles §4.6.1: note -> mtof -> oscillator -> filter ->
// optional envelope-gated amplifier -> master gain -> audio out.
func buildSynth(m builder.Map) (*builder.Fragment, error) {
	p, err := fromMapSynth(m)
	if err != nil {
		return nil, err
	}

	b := builder.New()

	note := b.Add(builder.Obj("inlet", builder.Sym("note")))
	mtof := b.Add(builder.Obj("mtof"))
	b.Wire(note, mtof)

	freqDefault := b.Add(builder.Msg(builder.Num(p.frequency)))

	var osc int
	switch p.waveform {
	case "sine":
		osc = b.Add(builder.Obj("osc~"))
		b.Wire(mtof, osc)
		b.Wire(freqDefault, osc)
	case "square":
		phasor := b.Add(builder.Obj("phasor~"))
		b.Wire(mtof, phasor)
		b.Wire(freqDefault, phasor)
		sq := b.Add(builder.Obj("sqosc~"))
		b.Wire(phasor, sq)
		osc = sq
	case "noise":
		osc = b.Add(builder.Obj("noise~"))
	default: // saw
		osc = b.Add(builder.Obj("phasor~"))
		b.Wire(mtof, osc)
		b.Wire(freqDefault, osc)
	}

	var filterOut int
	cutoffMsg := b.Add(builder.Msg(builder.Num(p.cutoff)))
	switch p.filter {
	case "highpass":
		hp := b.Add(builder.Obj("hip~"))
		b.Wire(osc, hp)
		b.Wire(cutoffMsg, hp, 0, 1)
		filterOut = hp
	case "bandpass":
		bp := b.Add(builder.Obj("bp~"))
		b.Wire(osc, bp)
		b.Wire(cutoffMsg, bp, 0, 1)
		filterOut = bp
	case "moog", "korg":
		if p.filter == "korg" {
			hp := b.Add(builder.Obj("hip~"))
			b.Wire(osc, hp)
			b.Wire(cutoffMsg, hp, 0, 1)
			lp := b.Add(builder.Obj("lop~"))
			b.Wire(hp, lp)
			b.Wire(cutoffMsg, lp, 0, 1)
			filterOut = lp
		} else {
			vcf := b.Add(builder.Obj("vcf~"))
			b.Wire(osc, vcf)
			b.Wire(cutoffMsg, vcf, 0, 1)
			filterOut = vcf
		}
	default: // lowpass
		lp := b.Add(builder.Obj("lop~"))
		b.Wire(osc, lp)
		b.Wire(cutoffMsg, lp, 0, 1)
		filterOut = lp
	}

	gateNodeIdx, gateTapIdx := -1, -1
	ampOut := filterOut
	if p.envelope != "none" {
		gate := b.Add(builder.Obj("inlet", builder.Sym("gate")))
		gateNodeIdx = gate
		trig := b.Add(builder.Obj("select", builder.Num(0)))
		gateTapIdx = trig
		b.Wire(gate, trig)

		attackMsg := b.Add(builder.Msg(builder.Num(0), builder.Sym(","), builder.Num(1), builder.Num(p.attack)))
		releaseMsg := b.Add(builder.Msg(builder.Num(0), builder.Num(p.release)))

		ramp := b.Add(builder.Obj("vline~"))
		b.Wire(trig, releaseMsg, 0)
		b.Wire(trig, attackMsg, 1)
		b.Wire(attackMsg, ramp)
		b.Wire(releaseMsg, ramp)

		amp := b.Add(builder.Obj("*~"))
		b.Wire(filterOut, amp)
		b.Wire(ramp, amp, 0, 1)
		ampOut = amp
	}

	masterGainMsg := b.Add(builder.Msg(builder.Num(p.amplitude)))
	masterGain := b.Add(builder.Obj("*~"))
	b.Wire(ampOut, masterGain)
	b.Wire(masterGainMsg, masterGain, 0, 1)

	dac := b.Add(builder.Obj("dac~"))
	b.Wire(masterGain, dac)

	ports := []builder.Port{
		{Name: "note", SignalType: builder.Control, Direction: builder.Input, NodeIndex: mtof, PortIndex: 0, IoNodeIndex: builder.IntPtr(note)},
		{Name: "audio", SignalType: builder.Audio, Direction: builder.Output, NodeIndex: masterGain, PortIndex: 0, IoNodeIndex: builder.IntPtr(dac)},
	}
	if gateNodeIdx >= 0 {
		ports = append(ports, builder.Port{Name: "gate", SignalType: builder.Control, Direction: builder.Input, NodeIndex: gateTapIdx, PortIndex: 0, IoNodeIndex: builder.IntPtr(gateNodeIdx)})
	}

	params := []builder.ParameterDescriptor{
		{Name: "cutoff", Label: "Cutoff", Min: 20, Max: 20000, Default: p.cutoff, Unit: "Hz", Curve: builder.Exponential, Category: "frequency", TargetNodeIndex: cutoffMsg, TargetInlet: 0},
		{Name: "amplitude", Label: "Amplitude", Min: 0, Max: 1, Default: p.amplitude, Unit: "", Curve: builder.Linear, Category: "amplitude", TargetNodeIndex: masterGainMsg, TargetInlet: 0},
	}
	if p.filter == "bandpass" || p.filter == "moog" {
		params = append(params, builder.ParameterDescriptor{
			Name: "resonance", Label: "Resonance", Min: 0, Max: 1, Default: 0, Unit: "", Curve: builder.Linear, Category: "filter",
		})
	}

	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}
