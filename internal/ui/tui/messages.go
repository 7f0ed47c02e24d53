// Package tui provides a Bubble Tea progress display for property
// submission.
package tui

import "github.com/imamik/rentwise/internal/property"

// PhaseMsg reports progress of a submission phase.
type PhaseMsg struct {
	Phase string
	Done  bool
	Err   error
}

// WarningMsg carries a non-fatal problem, e.g. a failed event publish.
type WarningMsg struct{ Text string }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the property was created.
type DoneMsg struct{ Created *property.Created }
