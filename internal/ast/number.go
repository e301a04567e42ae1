package ast

import "strconv"

// formatNumber canonicalizes a float64 to its shortest round-tripping
// decimal form, used when a Token is constructed without an original Raw
// string (e.g. by template builders, which never carry source text).
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ParseNumber reports whether s parses as a number and, if so, its value.
// A token is a number if it parses as such, else a symbol (spec §4.1,
// argument parsing).
func ParseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseToken classifies a raw source token into a Token, retaining the
// original decimal text for numbers so serialization can stay lossless.
func ParseToken(raw string) Token {
	if n, ok := ParseNumber(raw); ok {
		return Token{IsNumber: true, Num: n, Raw: raw}
	}
	return Token{Sym: raw}
}
