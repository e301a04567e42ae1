package templates

import (
	"fmt"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
)

type mixerParams struct {
	channels int
}

func fromMapMixer(m builder.Map) (mixerParams, error) {
	var p mixerParams
	var err error
	if p.channels, err = builder.IntRange("channels", m["channels"], 4, 1, 16); err != nil {
		return p, err
	}
	return p, nil
}

// buildMixer assembles §4.6.4: per-channel audio inlet -> volume multiplier
// driven by a loadbang-initialized number widget -> summed adder tree ->
// audio out.
func buildMixer(m builder.Map) (*builder.Fragment, error) {
	p, err := fromMapMixer(m)
	if err != nil {
		return nil, err
	}

	b := builder.New()
	var ports []builder.Port
	var params []builder.ParameterDescriptor

	var sum int
	first := true
	for ch := 1; ch <= p.channels; ch++ {
		b.NextColumn()
		chName := fmt.Sprintf("ch%d", ch)

		in := b.Add(builder.Obj("inlet~", builder.Sym(chName)))

		loadbang := b.Add(builder.Obj("loadbang"))
		defaultMsg := b.Add(builder.Msg(builder.Num(0.8)))
		b.Wire(loadbang, defaultMsg)

		gain := b.Add(ast.Node{Kind: ast.KindFloatAtom, Min: 0, Max: 1})
		b.Wire(defaultMsg, gain)

		mult := b.Add(builder.Obj("*~"))
		b.Wire(in, mult)
		b.Wire(gain, mult, 0, 1)

		ports = append(ports, builder.Port{
			Name: chName, SignalType: builder.Audio, Direction: builder.Input,
			NodeIndex: mult, PortIndex: 0, IoNodeIndex: builder.IntPtr(in),
		})
		params = append(params, builder.ParameterDescriptor{
			Name: "volume_" + chName, Label: "Volume (" + chName + ")", Min: 0, Max: 1, Default: 0.8,
			Curve: builder.Linear, Category: "amplitude", TargetNodeIndex: defaultMsg, TargetInlet: 0,
		})

		if first {
			sum = mult
			first = false
		} else {
			adder := b.Add(builder.Obj("+~"))
			b.Wire(sum, adder)
			b.Wire(mult, adder, 0, 1)
			sum = adder
		}
	}

	dac := b.Add(builder.Obj("dac~"))
	b.Wire(sum, dac)
	ports = append(ports, builder.Port{Name: "audio", SignalType: builder.Audio, Direction: builder.Output, NodeIndex: sum, PortIndex: 0, IoNodeIndex: builder.IntPtr(dac)})

	return &builder.Fragment{Spec: b.Spec(), Ports: ports, Parameters: params}, nil
}
