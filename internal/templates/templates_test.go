package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/builder"
	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
)

func TestKnownReportsRegisteredTemplates(t *testing.T) {
	assert.True(t, Known(Synth))
	assert.True(t, Known(Bridge))
	assert.False(t, Known(Name("not-a-template")))
}

func TestBuildUnknownTemplateIsContractError(t *testing.T) {
	_, err := Build(Name("nope"), builder.Map{})
	require.Error(t, err)
	perr, ok := err.(*patcherr.Error)
	require.True(t, ok)
	assert.Equal(t, patcherr.KindUnknownTemplate, perr.Kind)
}

func TestBuildSynthDefaultsHasAudioAndNotePorts(t *testing.T) {
	f, err := Build(Synth, builder.Map{})
	require.NoError(t, err)
	_, ok := f.PortByName("note")
	assert.True(t, ok)
	audio, ok := f.PortByName("audio")
	require.True(t, ok)
	assert.Equal(t, builder.Audio, audio.SignalType)
	require.NotNil(t, audio.IoNodeIndex)
}

func TestBuildSynthRejectsUnknownWaveform(t *testing.T) {
	_, err := Build(Synth, builder.Map{"waveform": "triangle-deluxe"})
	require.Error(t, err)
	assert.Equal(t, patcherr.KindInvalidParam, err.(*patcherr.Error).Kind)
}

func TestBuildSynthBandpassAddsResonanceParam(t *testing.T) {
	f, err := Build(Synth, builder.Map{"filter": "bandpass"})
	require.NoError(t, err)
	_, ok := f.ParamByName("resonance")
	assert.True(t, ok)
}

func TestBuildSequencerDefaultsHasNoteOutPort(t *testing.T) {
	f, err := Build(Sequencer, builder.Map{})
	require.NoError(t, err)
	p, ok := f.PortByName("note")
	require.True(t, ok)
	assert.Equal(t, builder.Output, p.Direction)
}

func TestBuildDrumMachineDefaultVoicesProduceLevelParams(t *testing.T) {
	f, err := Build(DrumMachine, builder.Map{})
	require.NoError(t, err)
	_, ok := f.ParamByName("volume_bd")
	assert.True(t, ok)
}

func TestBuildDrumMachineLegacyHHAlias(t *testing.T) {
	f, err := Build(DrumMachine, builder.Map{"voices": []any{"hh"}})
	require.NoError(t, err)
	_, ok := f.ParamByName("volume_ch")
	assert.True(t, ok)
}

func TestBuildMixerChannelCountOutOfRange(t *testing.T) {
	_, err := Build(Mixer, builder.Map{"channels": float64(99)})
	require.Error(t, err)
}

func TestBuildMixerPortsMatchChannelCount(t *testing.T) {
	f, err := Build(Mixer, builder.Map{"channels": float64(2)})
	require.NoError(t, err)
	_, ok1 := f.PortByName("ch1")
	_, ok2 := f.PortByName("ch2")
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestBuildReverbVariants(t *testing.T) {
	for _, variant := range []string{"simple", "schroeder"} {
		f, err := Build(Reverb, builder.Map{"variant": variant})
		require.NoError(t, err)
		_, ok := f.PortByName("audio")
		assert.True(t, ok)
	}
}

func TestBuildClockDefaultDivisionPorts(t *testing.T) {
	f, err := Build(Clock, builder.Map{})
	require.NoError(t, err)
	_, ok := f.PortByName("beat_div1")
	assert.True(t, ok)
}

func TestBuildChaosHasRParam(t *testing.T) {
	f, err := Build(Chaos, builder.Map{})
	require.NoError(t, err)
	_, ok := f.ParamByName("r")
	assert.True(t, ok)
}

func TestBuildTuringHasProbabilityParam(t *testing.T) {
	f, err := Build(Turing, builder.Map{})
	require.NoError(t, err)
	_, ok := f.ParamByName("probability")
	assert.True(t, ok)
}

func TestBuildGranularHasAudioPorts(t *testing.T) {
	f, err := Build(Granular, builder.Map{})
	require.NoError(t, err)
	_, okIn := f.PortByName("audio_in")
	_, okOut := f.PortByName("audio")
	assert.True(t, okIn)
	assert.True(t, okOut)
}

func TestBuildBridgeDefaultsToSingleDefaultRoute(t *testing.T) {
	f, err := Build(Bridge, builder.Map{})
	require.NoError(t, err)
	assert.NotEmpty(t, f.Spec.Nodes)
}

func TestBuildBridgeWithRoutesCreatesOnePortPerRoute(t *testing.T) {
	f, err := Build(Bridge, builder.Map{"routes": []any{"kick", "snare"}})
	require.NoError(t, err)
	_, ok1 := f.PortByName("pd-kick")
	_, ok2 := f.PortByName("pd-snare")
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestBuildBridgeRejectsBadPort(t *testing.T) {
	_, err := Build(Bridge, builder.Map{"port": float64(99999)})
	require.Error(t, err)
}
