// Package ops implements the journal operations behind the CLI, web, and
// MCP surfaces. Operations are plain functions over an Env so every surface
// shares one behavior; the external tools sit behind small interfaces so
// tests can swap them for fakes.
package ops

import (
	stderrors "errors"

	"github.com/nicolovejoy/audio-journal/internal/errors"
)

// Result limits shared by list and search.
const (
	DefaultListLimit   = 20
	MaxListLimit       = 200
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// clampLimit applies the default and maximum bounds to a requested limit.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// errCode extracts the journal error code for batch reports. Untyped errors
// report as IO_FAILURE since every untyped failure in a batch is a
// filesystem or subprocess problem.
func errCode(err error) string {
	var jErr *errors.JournalError
	if stderrors.As(err, &jErr) {
		return string(jErr.Code)
	}
	return string(errors.ErrIOFailure)
}
