package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
)

func TestEnumNilUsesDefault(t *testing.T) {
	v, err := Enum("waveform", nil, []string{"sine", "saw"}, "sine", "", "")
	require.NoError(t, err)
	assert.Equal(t, "sine", v)
}

func TestEnumCaseAndHyphenInsensitive(t *testing.T) {
	v, err := Enum("filter", "Band-Pass", []string{"bandpass", "lowpass"}, "lowpass", "", "")
	require.NoError(t, err)
	assert.Equal(t, "bandpass", v)
}

func TestEnumBoolCoercion(t *testing.T) {
	v, err := Enum("legato", true, []string{"on", "off"}, "off", "on", "off")
	require.NoError(t, err)
	assert.Equal(t, "on", v)
}

func TestEnumUnrecognizedIsInvalidParam(t *testing.T) {
	_, err := Enum("waveform", "triangle-wave-deluxe", []string{"sine", "saw"}, "sine", "", "")
	require.Error(t, err)
	perr, ok := err.(*patcherr.Error)
	require.True(t, ok)
	assert.Equal(t, patcherr.KindInvalidParam, perr.Kind)
}

func TestFloatRangeOutOfBounds(t *testing.T) {
	_, err := FloatRange("wetDry", 1.5, 0.5, 0, 1)
	require.Error(t, err)
}

func TestPositiveFloatRejectsZero(t *testing.T) {
	_, err := PositiveFloat("bpm", 0.0, 120)
	require.Error(t, err)
}

func TestIntRangeCoercesFloat(t *testing.T) {
	v, err := IntRange("steps", float64(16), 8, 1, 64)
	require.NoError(t, err)
	assert.Equal(t, 16, v)
}

func TestIntListEmptyCoercesToDefault(t *testing.T) {
	v, err := IntList("notes", []any{}, []int{60, 64, 67})
	require.NoError(t, err)
	assert.Equal(t, []int{60, 64, 67}, v)
}

func TestIntListExplicitValues(t *testing.T) {
	v, err := IntList("notes", []any{float64(1), float64(2)}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)
}

func TestStringListRejectsNonStringElement(t *testing.T) {
	_, err := StringList("routes", []any{"kick", 5}, nil)
	require.Error(t, err)
}

func TestBoolRejectsNonBool(t *testing.T) {
	_, err := Bool("cycle", "yes", false)
	require.Error(t, err)
}
