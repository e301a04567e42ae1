package builder

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
)

// Map is the raw parameter bundle every template's FromMap constructor
// receives (spec §6.2: "a map of string keys to JSON-compatible values").
type Map map[string]any

// normalizeEnum lowercases and replaces hyphens with nothing, the
// case-insensitive/hyphenated alias coercion described in spec §4.5.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// Enum resolves a raw value against a set of allowed options (each option's
// canonical spelling mapped from its normalized form), applying
// case-insensitive/hyphenated matching and an optional boolean coercion:
// boolTrue/boolFalse name the canonical option a bare `true`/`false` value
// maps to (spec §4.5, "Recognized parameter coercion").
func Enum(name string, raw any, options []string, def, boolTrue, boolFalse string) (string, error) {
	if raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		if v {
			if boolTrue != "" {
				return boolTrue, nil
			}
		} else if boolFalse != "" {
			return boolFalse, nil
		}
		return "", patcherr.InvalidParam(name, fmt.Sprintf("boolean %v has no mapped option", v), options)
	case string:
		norm := normalizeEnum(v)
		for _, opt := range options {
			if normalizeEnum(opt) == norm {
				return opt, nil
			}
		}
		return "", patcherr.InvalidParam(name, fmt.Sprintf("unrecognized value %q", v), options)
	default:
		return "", patcherr.InvalidParam(name, fmt.Sprintf("expected string or bool, got %T", raw), options)
	}
}

// Float64 extracts a numeric parameter, accepting float64, int and int64
// values, applying def when absent.
func Float64(name string, raw any, def float64) (float64, error) {
	if raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, patcherr.InvalidParam(name, fmt.Sprintf("expected number, got %T", raw), nil)
	}
}

// FloatRange extracts a numeric parameter and validates it falls in [lo,hi].
func FloatRange(name string, raw any, def, lo, hi float64) (float64, error) {
	v, err := Float64(name, raw, def)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, patcherr.InvalidParam(name, fmt.Sprintf("%v is out of range [%v, %v]", v, lo, hi), nil)
	}
	return v, nil
}

// PositiveFloat extracts a numeric parameter and validates it is > 0.
func PositiveFloat(name string, raw any, def float64) (float64, error) {
	v, err := Float64(name, raw, def)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, patcherr.InvalidParam(name, fmt.Sprintf("%v must be positive", v), nil)
	}
	return v, nil
}

// IntRange extracts an integer parameter within [lo,hi].
func IntRange(name string, raw any, def, lo, hi int) (int, error) {
	if raw == nil {
		return def, nil
	}
	f, err := Float64(name, raw, float64(def))
	if err != nil {
		return 0, err
	}
	v := int(f)
	if v < lo || v > hi {
		return 0, patcherr.InvalidParam(name, fmt.Sprintf("%d is out of range [%d, %d]", v, lo, hi), nil)
	}
	return v, nil
}

// IntList extracts a []int, coercing an absent or explicitly empty value to
// def (spec §4.5: "empty list-typed parameters are coerced to the
// template's default list").
func IntList(name string, raw any, def []int) ([]int, error) {
	if raw == nil {
		return def, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, patcherr.InvalidParam(name, fmt.Sprintf("expected list, got %T", raw), nil)
	}
	if len(items) == 0 {
		return def, nil
	}
	out := make([]int, len(items))
	for i, it := range items {
		f, err := Float64(name, it, 0)
		if err != nil {
			return nil, err
		}
		out[i] = int(f)
	}
	return out, nil
}

// StringList extracts a []string, coercing an absent or empty value to def.
func StringList(name string, raw any, def []string) ([]string, error) {
	if raw == nil {
		return def, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, patcherr.InvalidParam(name, fmt.Sprintf("expected list, got %T", raw), nil)
	}
	if len(items) == 0 {
		return def, nil
	}
	out := make([]string, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, patcherr.InvalidParam(name, fmt.Sprintf("element %d: expected string, got %T", i, it), nil)
		}
		out[i] = s
	}
	return out, nil
}

// Bool extracts a boolean parameter.
func Bool(name string, raw any, def bool) (bool, error) {
	if raw == nil {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, patcherr.InvalidParam(name, fmt.Sprintf("expected bool, got %T", raw), nil)
	}
	return v, nil
}

// String extracts a string parameter.
func String(name string, raw any, def string) (string, error) {
	if raw == nil {
		return def, nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", patcherr.InvalidParam(name, fmt.Sprintf("expected string, got %T", raw), nil)
	}
	return v, nil
}

