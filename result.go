package quirk

import (
	"fmt"
	"time"
)

// RunStatus is the overall outcome of a property run.
type RunStatus int

const (
	// RunPassed means every trial passed.
	RunPassed RunStatus = iota
	// RunFailed means a counterexample was found; Result.Failure holds the
	// shrunk form.
	RunFailed
	// RunInconclusive means the run could not decide, e.g. the discard
	// budget ran out before enough trials passed.
	RunInconclusive
)

func (s RunStatus) String() string {
	switch s {
	case RunPassed:
		return "passed"
	case RunFailed:
		return "failed"
	case RunInconclusive:
		return "inconclusive"
	}
	return fmt.Sprintf("RunStatus(%d)", int(s))
}

// ShrinkResult is the outcome of shrinking one counterexample.
type ShrinkResult[T any] struct {
	// Choices is the simplest failing sequence found.
	Choices *Choices

	// Value is the counterexample the sequence replays to.
	Value T

	// Steps counts candidate replays attempted, Shrinks the edits that
	// were accepted.
	Steps   int
	Shrinks int

	// BudgetExceeded is set when MaxShrinkSteps ran out with candidate
	// edits still untried. The result is still a genuine counterexample,
	// just not necessarily a local minimum.
	BudgetExceeded bool
}

// Failure describes a falsified property.
type Failure[T any] struct {
	ShrinkResult[T]

	// Err is the property's diagnostic for the shrunk value.
	Err error

	// Trial is the index of the failing trial, Size its size hint.
	Trial int
	Size  int

	// Replayed marks failures rediscovered from Config.Replay rather than
	// a fresh random trial.
	Replayed bool

	// Original holds the pre-shrink counterexample as first drawn.
	Original        T
	OriginalChoices *Choices
	OriginalErr     error
}

// Result is the full outcome of Run.
type Result[T any] struct {
	Status RunStatus
	Name   string
	RunID  string

	// Seed reproduces the run; pass it back via Config.Seed or QUIRK_SEED.
	Seed int64

	Trials   int
	Discards int
	Elapsed  time.Duration

	// Failure is set when Status is RunFailed.
	Failure *Failure[T]

	// Err is set when Status is RunInconclusive and names the reason.
	Err error
}

// Report flattens the result into its non-generic form for listeners.
func (r *Result[T]) Report() *RunReport {
	return &RunReport{
		Name:     r.Name,
		RunID:    r.RunID,
		Status:   r.Status,
		Seed:     r.Seed,
		Trials:   r.Trials,
		Discards: r.Discards,
		Elapsed:  r.Elapsed,
	}
}

// FailureRecord renders the failure into its persistable form, nil when the
// run did not fail.
func (r *Result[T]) FailureRecord() *FailureRecord {
	if r.Failure == nil {
		return nil
	}
	f := r.Failure
	rec := &FailureRecord{
		Property:   r.Name,
		Seed:       r.Seed,
		Size:       f.Size,
		Steps:      f.Steps,
		Choices:    f.Choices.String(),
		Value:      fmt.Sprintf("%+v", f.Value),
		Diagnostic: f.Err.Error(),
	}
	rec.SetDefaults()
	return rec
}

// RunReport is the type-erased view of a Result handed to listeners.
type RunReport struct {
	Name     string        `json:"name"`
	RunID    string        `json:"run_id"`
	Status   RunStatus     `json:"status"`
	Seed     int64         `json:"seed"`
	Trials   int           `json:"trials"`
	Discards int           `json:"discards"`
	Elapsed  time.Duration `json:"elapsed"`
}
