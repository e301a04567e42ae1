package patcherr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDoesNotMutateOriginal(t *testing.T) {
	base := UnknownTemplate("drummer")
	extended := base.With("extra", 1)

	_, hasExtra := base.Context["extra"]
	assert.False(t, hasExtra)
	assert.Equal(t, 1, extended.Context["extra"])
}

func TestErrorStringFormat(t *testing.T) {
	err := InvalidParam("bpm", "must be positive", nil)
	assert.Equal(t, `InvalidParam: invalid parameter "bpm": must be positive`, err.Error())
}

func TestInModuleWrapsWithErrorsAs(t *testing.T) {
	inner := UnknownTemplate("ghost")
	wrapped := InModule(2, "ghost", inner)

	var perr *Error
	require.True(t, errors.As(wrapped, &perr))
	assert.Equal(t, KindUnknownTemplate, perr.Kind)
	assert.Contains(t, wrapped.Error(), "module 2")
}

func TestDuplicateMappingCarriesParamContext(t *testing.T) {
	err := DuplicateMapping("cutoff")
	assert.Equal(t, "cutoff", err.Context["param"])
}
