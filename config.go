package quirk

import (
	"github.com/fnproject/quirk/common"
)

// Env var names honored by DefaultConfig. They make a failing CI seed
// reproducible locally without touching test code.
const (
	EnvSeed           = "QUIRK_SEED"
	EnvTrials         = "QUIRK_TRIALS"
	EnvMaxShrinkSteps = "QUIRK_MAX_SHRINK_STEPS"
)

const (
	DefaultTrials          = 100
	DefaultMaxDiscardRatio = 5.0
	DefaultMinSize         = 0
	DefaultMaxSize         = 100
	DefaultMaxShrinkSteps  = 10000
	DefaultFilterRetries   = 100
)

// Config tunes a property run. The zero value is usable, every zero field
// falls back to its default at run time.
type Config struct {
	// Name identifies the property in logs, results and failure records.
	// Empty means the generator's label.
	Name string

	// Trials is the number of passing trials required before the run
	// counts as passed.
	Trials int

	// MaxDiscardRatio bounds discards at MaxDiscardRatio*Trials across the
	// whole run. Crossing it aborts with ErrTooManyDiscards.
	MaxDiscardRatio float64

	// Seed pins the random stream. Zero picks a fresh seed, which is
	// reported in the result either way.
	Seed int64

	// MinSize and MaxSize bound the size hint handed to Sized generators.
	// Size grows linearly from MinSize to MaxSize over the trials.
	MinSize int
	MaxSize int

	// MaxShrinkSteps caps candidate replays during shrinking. Hitting the
	// cap keeps the best candidate found and flags the result.
	MaxShrinkSteps int

	// Replay holds known failures to check before any random trials, the
	// way faildb feeds back previously recorded counterexamples.
	Replay []KnownFailure

	// Listeners observe run boundaries and failures.
	Listeners []RunListener
}

// KnownFailure is a previously recorded counterexample to re-check.
type KnownFailure struct {
	Choices *Choices

	// Size the failure was generated at. Zero means Config.MaxSize.
	Size int
}

// DefaultConfig builds a config from defaults and the QUIRK_* environment.
func DefaultConfig() *Config {
	return &Config{
		Trials:          common.GetEnvInt(EnvTrials, DefaultTrials),
		MaxDiscardRatio: DefaultMaxDiscardRatio,
		Seed:            common.GetEnvInt64(EnvSeed, 0),
		MinSize:         DefaultMinSize,
		MaxSize:         DefaultMaxSize,
		MaxShrinkSteps:  common.GetEnvInt(EnvMaxShrinkSteps, DefaultMaxShrinkSteps),
	}
}

// withDefaults returns a filled-in copy, leaving the caller's config alone.
func (c *Config) withDefaults() *Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.Trials <= 0 {
		out.Trials = common.GetEnvInt(EnvTrials, DefaultTrials)
	}
	if out.MaxDiscardRatio <= 0 {
		out.MaxDiscardRatio = DefaultMaxDiscardRatio
	}
	if out.MaxSize <= 0 {
		out.MaxSize = DefaultMaxSize
	}
	if out.MinSize < 0 {
		out.MinSize = DefaultMinSize
	}
	if out.MinSize > out.MaxSize {
		out.MinSize = out.MaxSize
	}
	if out.MaxShrinkSteps <= 0 {
		out.MaxShrinkSteps = common.GetEnvInt(EnvMaxShrinkSteps, DefaultMaxShrinkSteps)
	}
	if out.Seed == 0 {
		out.Seed = common.GetEnvInt64(EnvSeed, 0)
	}
	if out.Seed == 0 {
		out.Seed = common.RandomSeed()
	}
	return &out
}

// sizeFor interpolates the size hint for a trial index.
func (c *Config) sizeFor(trial int) int {
	if c.Trials <= 1 || trial >= c.Trials-1 {
		return c.MaxSize
	}
	if trial < 0 {
		trial = 0
	}
	return c.MinSize + (c.MaxSize-c.MinSize)*trial/(c.Trials-1)
}
