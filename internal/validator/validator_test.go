package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/parser"
	"github.com/Conceptual-Machines/patch-core/internal/registry"
)

func mustParse(t *testing.T, src string) *ast.Patch {
	t.Helper()
	p, err := parser.Parse(src)
	require.NoError(t, err)
	return p
}

func TestValidateCleanPatch(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 0 1 0;
`)
	res := Validate(p, registry.New())
	assert.True(t, res.Valid)
	assert.Equal(t, 0, res.Summary.Errors)
}

func TestValidateOutletOutOfBounds(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 5 1 0;
`)
	res := Validate(p, registry.New())
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.FilterBySeverity(SeverityError))
	assert.Equal(t, OutletOutOfBounds, res.FilterBySeverity(SeverityError)[0].Code)
}

func TestValidateBrokenConnectionTarget(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X connect 0 0 5 0;
`)
	res := Validate(p, registry.New())
	assert.False(t, res.Valid)
	found := false
	for _, i := range res.Issues {
		if i.Code == BrokenConnectionTarget {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateDuplicateConnectionIsWarningNotError(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 dac~;
#X connect 0 0 1 0;
#X connect 0 0 1 0;
`)
	res := Validate(p, registry.New())
	assert.True(t, res.Valid)
	dupes := res.FilterBySeverity(SeverityWarning)
	require.NotEmpty(t, dupes)
	assert.Equal(t, DuplicateConnection, dupes[0].Code)
}

func TestValidateUnknownObject(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#X obj 50 50 definitely-not-a-real-object;
`)
	res := Validate(p, registry.New())
	codes := map[Code]bool{}
	for _, i := range res.Issues {
		codes[i.Code] = true
	}
	assert.True(t, codes[UnknownObject])
	assert.True(t, res.Valid) // unknown object is a warning, not an error
}

func TestValidateOrphanObject(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
`)
	res := Validate(p, registry.New())
	codes := map[Code]bool{}
	for _, i := range res.Issues {
		codes[i.Code] = true
	}
	assert.True(t, codes[OrphanObject])
}

func TestValidateEmptySubpatch(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#N canvas 0 0 300 300 10;
#X restore 100 100 pd empty;
`)
	res := Validate(p, registry.New())
	codes := map[Code]bool{}
	for _, i := range res.Issues {
		codes[i.Code] = true
	}
	assert.True(t, codes[EmptySubpatch])
}

func TestValidateNoDSPSinkWarning(t *testing.T) {
	p := mustParse(t, `#N canvas 0 0 450 300 10;
#X obj 50 50 osc~ 440;
#X obj 50 100 print;
#X connect 0 0 1 0;
`)
	res := Validate(p, registry.New())
	codes := map[Code]bool{}
	for _, i := range res.Issues {
		codes[i.Code] = true
	}
	assert.True(t, codes[NoDSPSink])
}

func TestResultStringFormat(t *testing.T) {
	res := Result{Valid: true, Summary: Summary{Warnings: 2}}
	assert.Contains(t, res.String(), "valid")
	assert.Contains(t, res.String(), "2 warning(s)")
}
