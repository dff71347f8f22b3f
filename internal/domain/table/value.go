// Package table holds the in-memory employee table and its CSV codec.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the content of a Value.
type Kind uint8

// Value kinds.
const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is a single cell: a number, a piece of text, or missing.
// The zero Value is missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric value. NaN and the infinities are treated as
// missing.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Text returns a textual value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Kind reports what the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell has no value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric content. ok is false for text and missing cells.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value the way it is written to CSV: numbers in their
// shortest round-trip form, text verbatim, missing as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// naTokens are the cell spellings read as missing.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// Parse converts a raw CSV field into a Value.
func Parse(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if _, ok := naTokens[trimmed]; ok {
		return Value{}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !isHexLiteral(trimmed) {
		return Number(f)
	}
	return Text(raw)
}

// isHexLiteral rejects strconv's hexadecimal float syntax, which spreadsheets
// never emit and which should stay textual (e.g. an id like "0x1p3").
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
