package quirk

import (
	"errors"
)

var (
	// ErrSkip is returned by a property to discard the current trial
	// without failing it. The runner draws a fresh value and counts the
	// discard against Config.MaxDiscardRatio.
	ErrSkip = errors.New("Trial skipped, precondition not met")

	// ErrRejected is returned by a filtered generator when the retry cap
	// is reached without the predicate accepting a value. During a live
	// trial the runner treats it as a discard; during shrink replay the
	// candidate sequence is abandoned.
	ErrRejected = errors.New("Generator rejected all drawn values")

	// ErrFalsified is the diagnostic used by Predicate when the wrapped
	// boolean property returns false.
	ErrFalsified = errors.New("Predicate returned false")

	// ErrTooManyDiscards aborts a run whose discard count exceeded
	// Config.MaxDiscardRatio times the trial count.
	ErrTooManyDiscards = errors.New("Too many trials discarded, property is inconclusive")

	// ErrReplayMismatch means a stored failure was asked for under a
	// property name other than the one it was recorded for.
	ErrReplayMismatch = errors.New("Stored failure belongs to a different property")
)
