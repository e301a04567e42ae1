package templates

import (
	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
	objregistry "github.com/Conceptual-Machines/patch-core/internal/registry"
)

var allVoices = []string{"bd", "sn", "ch", "oh", "cp"}

// defaultPattern is the fixed default 16-step pattern per voice (spec
// §4.6.3).
var defaultPattern = map[string][]int{
	"bd": {0, 4, 8, 12},
	"sn": {4, 12},
	"ch": {0, 2, 4, 6, 8, 10, 12},
	"oh": {14},
	"cp": {8},
}

type drumParams struct {
	voices               []string
	bpm                  float64
	morphX, morphY       float64
	amplitude            float64
	volume               map[string]float64
}

func fromMapDrumMachine(m builder.Map) (drumParams, error) {
	var p drumParams
	var err error

	rawVoices, err := builder.StringList("voices", m["voices"], allVoices)
	if err != nil {
		return p, err
	}
	seen := make(map[string]bool, len(rawVoices))
	for _, v := range rawVoices {
		canon := objregistry.ResolveLegacyAlias(v) // legacy alias (spec §4.6.3)
		seen[canon] = true
	}
	for _, v := range allVoices {
		if seen[v] {
			p.voices = append(p.voices, v)
		}
	}

	if p.bpm, err = builder.FloatRange("bpm", m["bpm"], 120, 0, 999); err != nil {
		return p, err
	}
	if p.morphX, err = builder.FloatRange("morphX", m["morphX"], 0.5, 0, 1); err != nil {
		return p, err
	}
	if p.morphY, err = builder.FloatRange("morphY", m["morphY"], 0.5, 0, 1); err != nil {
		return p, err
	}
	// legacy aliases tune/decay/tone map onto the morph axes (spec §4.6.3).
	if tune, ok := m["tune"]; ok {
		if p.morphX, err = builder.FloatRange("tune", tune, p.morphX, 0, 1); err != nil {
			return p, err
		}
	}
	if decay, ok := m["decay"]; ok {
		if p.morphY, err = builder.FloatRange("decay", decay, p.morphY, 0, 1); err != nil {
			return p, err
		}
	}
	if tone, ok := m["tone"]; ok {
		if p.morphX, err = builder.FloatRange("tone", tone, p.morphX, 0, 1); err != nil {
			return p, err
		}
	}
	if p.amplitude, err = builder.FloatRange("amplitude", m["amplitude"], 0.8, 0, 1); err != nil {
		return p, err
	}

	p.volume = make(map[string]float64, len(p.voices))
	for _, v := range p.voices {
		p.volume[v] = 0.8
	}
	return p, nil
}

// buildDrumMachine assembles §4.6.3: always a 16-step counter; an optional
// internal metro + tap-tempo path when bpm > 0; one column per selected
// voice with a pattern selector driving that voice's synthesis graph; a
// CH/OH choke interlock; and a per-voice level sum into master amplitude.
func buildDrumMachine(m builder.Map) (*builder.Fragment, error) {
	p, err := fromMapDrumMachine(m)
	if err != nil {
		return nil, err
	}

	b := builder.New()

	// Always-present 16-step counter (spec §4.6.3).
	counterFloat := b.Add(builder.Obj("float"))
	incr := b.Add(builder.Obj("+", builder.Num(1)))
	mod16 := b.Add(builder.Obj("mod", builder.Num(16)))
	b.Wire(counterFloat, incr)
	b.Wire(incr, mod16)
	b.Wire(mod16, counterFloat, 0, 1)

	clockIn := b.Add(builder.Obj("inlet", builder.Sym("clock_in")))
	clockOut := b.Add(builder.Obj("outlet", builder.Sym("clock_out")))
	b.Wire(clockIn, counterFloat)
	b.Wire(mod16, clockOut)

	ioClockNode := -1
	if p.bpm > 0 {
		loadbang := b.Add(builder.Obj("loadbang"))
		startMsg := b.Add(builder.Msg(builder.Num(1)))
		b.Wire(loadbang, startMsg)

		interval := 60000.0 / p.bpm / 4 // 16th-note timing
		metro := b.Add(builder.Obj("metro", builder.Num(interval)))
		b.Wire(startMsg, metro)
		b.Wire(metro, counterFloat)
		ioClockNode = metro

		tapButton := b.Add(builder.Obj("bng"))
		tapTrig := b.Add(builder.Obj("trigger", builder.Sym("bang"), builder.Sym("bang")))
		b.Wire(tapButton, tapTrig)

		timer := b.Add(builder.Obj("timer"))
		timerResetMsg := b.Add(builder.Msg(builder.Sym("bang")))
		b.Wire(tapTrig, timerResetMsg, 0)
		b.Wire(timerResetMsg, timer)

		timerReadMsg := b.Add(builder.Msg(builder.Sym("bang")))
		b.Wire(tapTrig, timerReadMsg, 1)
		b.Wire(timerReadMsg, timer)

		divFour := b.Add(builder.Obj("/", builder.Num(4)))
		b.Wire(timer, divFour)
		b.Wire(divFour, metro, 0, 1)
	}

	columns := make(map[string]voiceColumn)
	ports := []builder.Port{
		{Name: "clock_in", SignalType: builder.Control, Direction: builder.Input, NodeIndex: counterFloat, PortIndex: 0, IoNodeIndex: ioNodePtr(ioClockNode)},
		{Name: "clock_out", SignalType: builder.Control, Direction: builder.Output, NodeIndex: mod16, PortIndex: 0},
	}

	for _, voice := range p.voices {
		b.NextColumn()
		col := buildVoiceColumn(b, voice, defaultPattern[voice], p.morphX, p.morphY)
		columns[voice] = col
		ports = append(ports, builder.Port{Name: "trig_" + voice, SignalType: builder.Control, Direction: builder.Input, NodeIndex: col.trigBang, PortIndex: 0})
	}

	// choke rule: CH trigger also zeroes OH's amplitude envelope fast (spec
	// §4.6.3).
	if chCol, hasCh := columns["ch"]; hasCh {
		if ohCol, hasOh := columns["oh"]; hasOh {
			chokeMsg := b.Add(builder.Msg(builder.Num(0), builder.Num(5)))
			b.Wire(chCol.trigBang, chokeMsg)
			b.Wire(chokeMsg, ohCol.ampRamp)
		}
	}

	b.NextColumn()
	var sum int
	first := true
	var volumeParams []builder.ParameterDescriptor
	for _, voice := range p.voices {
		col := columns[voice]
		levelMsg := b.Add(builder.Msg(builder.Num(p.volume[voice])))
		level := b.Add(builder.Obj("*~"))
		b.Wire(col.audioOut, level)
		b.Wire(levelMsg, level, 0, 1)
		volumeParams = append(volumeParams, builder.ParameterDescriptor{
			Name: "volume_" + voice, Label: "Volume (" + voice + ")", Min: 0, Max: 1, Default: p.volume[voice],
			Curve: builder.Linear, Category: "amplitude", TargetNodeIndex: levelMsg, TargetInlet: 0,
		})

		if first {
			sum = level
			first = false
		} else {
			adder := b.Add(builder.Obj("+~"))
			b.Wire(sum, adder)
			b.Wire(level, adder, 0, 1)
			sum = adder
		}
	}
	if first {
		sum = b.Add(builder.Obj("sig~", builder.Num(0)))
	}

	masterMsg := b.Add(builder.Msg(builder.Num(p.amplitude)))
	master := b.Add(builder.Obj("*~"))
	b.Wire(sum, master)
	b.Wire(masterMsg, master, 0, 1)

	dac := b.Add(builder.Obj("dac~"))
	b.Wire(master, dac)

	ports = append(ports, builder.Port{Name: "audio", SignalType: builder.Audio, Direction: builder.Output, NodeIndex: master, PortIndex: 0, IoNodeIndex: builder.IntPtr(dac)})

	params := append(volumeParams, builder.ParameterDescriptor{
		Name: "volume", Label: "Master volume", Min: 0, Max: 1, Default: p.amplitude, Curve: builder.Linear, Category: "amplitude", TargetNodeIndex: masterMsg, TargetInlet: 0,
	})
	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}

func ioNodePtr(idx int) *int {
	if idx < 0 {
		return nil
	}
	return &idx
}

// voiceColumn records the node indices downstream templates need to wire
// the choke rule and the per-voice sum.
type voiceColumn struct {
	trigBang int
	audioOut int
	ampRamp  int
}

func buildVoiceColumn(b *builder.Builder, voice string, pattern []int, morphX, morphY float64) voiceColumn {
	sel := b.Add(builder.Obj("select", intTokens16(pattern)...))
	trig := b.Add(builder.Obj("bang"))
	for i := range pattern {
		b.Wire(sel, trig, i)
	}

	switch voice {
	case "bd":
		return buildKick(b, trig, morphX, morphY)
	case "sn":
		return buildSnare(b, trig, morphX, morphY)
	case "ch":
		return buildHat(b, trig, morphX, morphY, false)
	case "oh":
		return buildHat(b, trig, morphX, morphY, true)
	case "cp":
		return buildClap(b, trig, morphX, morphY)
	default:
		return buildKick(b, trig, morphX, morphY)
	}
}

func intTokens16(steps []int) []ast.Token {
	out := make([]ast.Token, len(steps))
	for i, s := range steps {
		out[i] = builder.Num(float64(s))
	}
	return out
}

// buildKick: sine oscillator with pitch-ramp and amp-ramp envelopes.
func buildKick(b *builder.Builder, trig int, morphX, morphY float64) voiceColumn {
	startFreq := 40 + morphX*120
	baseFreq := 40 + morphX*20
	pitchMsg := b.Add(builder.Msg(builder.Num(startFreq), builder.Sym(","), builder.Num(baseFreq), builder.Num(60+morphY*100)))
	b.Wire(trig, pitchMsg)
	pitchRamp := b.Add(builder.Obj("line~"))
	b.Wire(pitchMsg, pitchRamp)
	osc := b.Add(builder.Obj("osc~"))
	b.Wire(pitchRamp, osc)

	ampMsg := b.Add(builder.Msg(builder.Num(0), builder.Sym(","), builder.Num(1), builder.Num(2), builder.Sym(","), builder.Num(0), builder.Num(200+morphY*300)))
	b.Wire(trig, ampMsg)
	ampRamp := b.Add(builder.Obj("vline~"))
	b.Wire(ampMsg, ampRamp)

	amp := b.Add(builder.Obj("*~"))
	b.Wire(osc, amp)
	b.Wire(ampRamp, amp, 0, 1)
	return voiceColumn{trigBang: trig, audioOut: amp, ampRamp: ampRamp}
}

// buildSnare: two tone oscillators plus noise through bandpass, separate
// amp envelopes, summed.
func buildSnare(b *builder.Builder, trig int, morphX, morphY float64) voiceColumn {
	tone1 := b.Add(builder.Obj("osc~", builder.Num(180+morphX*40)))
	tone2 := b.Add(builder.Obj("osc~", builder.Num(330+morphX*60)))
	toneSum := b.Add(builder.Obj("+~"))
	b.Wire(tone1, toneSum)
	b.Wire(tone2, toneSum, 0, 1)

	toneAmpMsg := b.Add(builder.Msg(builder.Num(0), builder.Sym(","), builder.Num(1), builder.Num(1), builder.Sym(","), builder.Num(0), builder.Num(80+morphY*80)))
	b.Wire(trig, toneAmpMsg)
	toneAmpRamp := b.Add(builder.Obj("vline~"))
	b.Wire(toneAmpMsg, toneAmpRamp)
	toneOut := b.Add(builder.Obj("*~"))
	b.Wire(toneSum, toneOut)
	b.Wire(toneAmpRamp, toneOut, 0, 1)

	noise := b.Add(builder.Obj("noise~"))
	bp := b.Add(builder.Obj("bp~", builder.Num(2000), builder.Num(2)))
	b.Wire(noise, bp)

	noiseAmpMsg := b.Add(builder.Msg(builder.Num(0), builder.Sym(","), builder.Num(1), builder.Num(1), builder.Sym(","), builder.Num(0), builder.Num(100+morphY*150)))
	b.Wire(trig, noiseAmpMsg)
	noiseAmpRamp := b.Add(builder.Obj("vline~"))
	b.Wire(noiseAmpMsg, noiseAmpRamp)
	noiseOut := b.Add(builder.Obj("*~"))
	b.Wire(bp, noiseOut)
	b.Wire(noiseAmpRamp, noiseOut, 0, 1)

	sum := b.Add(builder.Obj("+~"))
	b.Wire(toneOut, sum)
	b.Wire(noiseOut, sum, 0, 1)
	return voiceColumn{trigBang: trig, audioOut: sum, ampRamp: noiseAmpRamp}
}

// sumOscGroup builds one three-oscillator inharmonic group for buildHat.
func sumOscGroup(b *builder.Builder, base float64, ratios []float64) int {
	sum := b.Add(builder.Obj("osc~", builder.Num(base*ratios[0])))
	for _, r := range ratios[1:] {
		osc := b.Add(builder.Obj("osc~", builder.Num(base*r)))
		adder := b.Add(builder.Obj("+~"))
		b.Wire(sum, adder)
		b.Wire(osc, adder, 0, 1)
		sum = adder
	}
	return sum
}

// buildHat: six inharmonic oscillators in two groups of three, summed,
// through bandpass+highpass with an amp envelope; open hat gets a long
// decay.
func buildHat(b *builder.Builder, trig int, morphX, morphY float64, open bool) voiceColumn {
	ratios := []float64{2.0, 3.0, 4.16, 5.43, 6.79, 8.21}
	base := 200 + morphX*100
	groupA := sumOscGroup(b, base, ratios[0:3])
	groupB := sumOscGroup(b, base, ratios[3:6])
	sum := b.Add(builder.Obj("+~"))
	b.Wire(groupA, sum)
	b.Wire(groupB, sum, 0, 1)

	hp := b.Add(builder.Obj("hip~", builder.Num(6000)))
	b.Wire(sum, hp)
	bp := b.Add(builder.Obj("bp~", builder.Num(9000), builder.Num(3)))
	b.Wire(hp, bp)

	decayMs := 30 + morphY*50
	if open {
		decayMs = 300 + morphY*400
	}
	ampMsg := b.Add(builder.Msg(builder.Num(0), builder.Sym(","), builder.Num(1), builder.Num(1), builder.Sym(","), builder.Num(0), builder.Num(decayMs)))
	b.Wire(trig, ampMsg)
	ampRamp := b.Add(builder.Obj("vline~"))
	b.Wire(ampMsg, ampRamp)

	out := b.Add(builder.Obj("*~"))
	b.Wire(bp, out)
	b.Wire(ampRamp, out, 0, 1)
	return voiceColumn{trigBang: trig, audioOut: out, ampRamp: ampRamp}
}

// buildClap: noise through bandpass, amplitude envelope encodes a
// five-burst pattern via vline~'s multi-segment delay syntax.
func buildClap(b *builder.Builder, trig int, morphX, morphY float64) voiceColumn {
	noise := b.Add(builder.Obj("noise~"))
	bp := b.Add(builder.Obj("bp~", builder.Num(1200+morphX*800), builder.Num(4)))
	b.Wire(noise, bp)

	burst := b.Add(builder.Msg(
		builder.Num(0), builder.Sym(","), builder.Num(1), builder.Num(1),
		builder.Sym(","), builder.Num(0), builder.Num(10), builder.Num(10),
		builder.Sym(","), builder.Num(1), builder.Num(1), builder.Num(20),
		builder.Sym(","), builder.Num(0), builder.Num(10), builder.Num(30),
		builder.Sym(","), builder.Num(1), builder.Num(1), builder.Num(40),
		builder.Sym(","), builder.Num(0), builder.Num(30+morphY*60), builder.Num(50),
	))
	b.Wire(trig, burst)
	ampRamp := b.Add(builder.Obj("vline~"))
	b.Wire(burst, ampRamp)

	out := b.Add(builder.Obj("*~"))
	b.Wire(bp, out)
	b.Wire(ampRamp, out, 0, 1)
	return voiceColumn{trigBang: trig, audioOut: out, ampRamp: ampRamp}
}
