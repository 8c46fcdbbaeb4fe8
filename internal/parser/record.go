// Package parser splits fixed-width SATCAT and TLE records into typed fields.
//
// Every function in this package is pure: it never fails and never mutates
// shared state, so callers may invoke it from any number of goroutines.
package parser

import "strings"

// NotAvailable is the literal feeds use to mark a column with no value.
const NotAvailable = "N/A"

// Field holds a parsed column that may carry no value. The zero Field is
// absent, which keeps "blank" and "absent" from being confused downstream.
type Field[T any] struct {
	Value T
	Valid bool
}

// Some returns a present field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Valid: true}
}

// None returns an absent field.
func None[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Valid
}

// Or returns the value, or def when the field is absent.
func (f Field[T]) Or(def T) T {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Span is a half-open [Start, End) column range, counted in characters.
type Span struct {
	Name  string
	Start int
	End   int
}

// Schema is an ordered list of named spans.
type Schema []Span

// Explode cuts every span of schema out of line and trims it. Trimmed values
// that are empty or NotAvailable become absent fields. Spans that run past the
// end of a short line are clipped, so every schema name is always present in
// the result.
func Explode(line string, schema Schema) map[string]Field[string] {
	runes := []rune(line)
	out := make(map[string]Field[string], len(schema))
	for _, s := range schema {
		out[s.Name] = cut(runes, s)
	}
	return out
}

func cut(runes []rune, s Span) Field[string] {
	start, end := clamp(s.Start, len(runes)), clamp(s.End, len(runes))
	if start >= end {
		return None[string]()
	}
	v := strings.TrimSpace(string(runes[start:end]))
	if v == "" || v == NotAvailable {
		return None[string]()
	}
	return Some(v)
}

func clamp(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i > n:
		return n
	}
	return i
}
