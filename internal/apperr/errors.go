// Package apperr defines the error kinds shared across the catalog.
package apperr

import "errors"

var (
	// ErrFormat marks malformed textual input such as a compact timestamp.
	ErrFormat = errors.New("format error")
	// ErrNotFound marks a missing catalog entry or a missing TLE for a time.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks values that fail a domain check before use.
	ErrValidation = errors.New("validation error")
	// ErrPropagation marks a propagator refusal for the requested instant.
	ErrPropagation = errors.New("propagation error")
	ErrConflict    = errors.New("conflict")
)
