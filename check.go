package quirk

import (
	"context"
	"fmt"
	"testing"
)

// Check runs the property under t, failing it with a reproduction line when
// the property is falsified or the run is inconclusive. A nil cfg means
// DefaultConfig, which picks up QUIRK_SEED and friends from the environment;
// an empty name falls back to t.Name().
func Check[T any](t *testing.T, gen Generator[T], prop func(T) error, cfg *Config) *Result[T] {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Name == "" {
		c := *cfg
		c.Name = t.Name()
		cfg = &c
	}

	res := Run(context.Background(), gen, prop, cfg)
	switch res.Status {
	case RunFailed:
		f := res.Failure
		t.Errorf("property %s falsified on trial %d:\n  minimal: %+v\n  cause: %v\n  choices: %s\n  rerun: %s=%d",
			res.Name, f.Trial, f.Value, f.Err, f.Choices, EnvSeed, res.Seed)
	case RunInconclusive:
		t.Errorf("property %s inconclusive after %d trials, %d discards (rerun: %s=%d): %v",
			res.Name, res.Trials, res.Discards, EnvSeed, res.Seed, res.Err)
	}
	return res
}

// Predicate adapts a boolean property to the func(T) error form, failing
// with a rendered copy of the offending value.
func Predicate[T any](pred func(T) bool) func(T) error {
	return func(v T) error {
		if pred(v) {
			return nil
		}
		return fmt.Errorf("%w for %+v", ErrFalsified, v)
	}
}
