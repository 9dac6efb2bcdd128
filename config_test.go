package quirk

import (
	"testing"
)

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv(EnvTrials, "500")
	t.Setenv(EnvSeed, "12345")
	t.Setenv(EnvMaxShrinkSteps, "77")

	cfg := DefaultConfig()
	if cfg.Trials != 500 {
		t.Errorf("trials = %d", cfg.Trials)
	}
	if cfg.Seed != 12345 {
		t.Errorf("seed = %d", cfg.Seed)
	}
	if cfg.MaxShrinkSteps != 77 {
		t.Errorf("max shrink steps = %d", cfg.MaxShrinkSteps)
	}
}

func TestWithDefaults(t *testing.T) {
	var orig Config
	cfg := orig.withDefaults()

	if cfg.Trials != DefaultTrials {
		t.Errorf("trials = %d", cfg.Trials)
	}
	if cfg.MaxDiscardRatio != DefaultMaxDiscardRatio {
		t.Errorf("discard ratio = %v", cfg.MaxDiscardRatio)
	}
	if cfg.MaxSize != DefaultMaxSize || cfg.MinSize != DefaultMinSize {
		t.Errorf("size bounds = [%d, %d]", cfg.MinSize, cfg.MaxSize)
	}
	if cfg.MaxShrinkSteps != DefaultMaxShrinkSteps {
		t.Errorf("max shrink steps = %d", cfg.MaxShrinkSteps)
	}
	if cfg.Seed == 0 {
		t.Error("seed not picked")
	}
	if orig.Seed != 0 {
		t.Error("withDefaults mutated its receiver")
	}

	nilFilled := (*Config)(nil).withDefaults()
	if nilFilled.Trials != DefaultTrials {
		t.Error("nil config not filled")
	}

	explicit := &Config{Trials: 7, Seed: 9, MinSize: 50, MaxSize: 10}
	filled := explicit.withDefaults()
	if filled.Trials != 7 || filled.Seed != 9 {
		t.Error("explicit fields overridden")
	}
	if filled.MinSize > filled.MaxSize {
		t.Errorf("inverted size bounds survived: [%d, %d]", filled.MinSize, filled.MaxSize)
	}
}

func TestWithDefaultsHonorsEnv(t *testing.T) {
	t.Setenv(EnvTrials, "31")
	t.Setenv(EnvSeed, "99")

	cfg := (&Config{Name: "env-backed"}).withDefaults()
	if cfg.Trials != 31 {
		t.Errorf("trials = %d, want the env override", cfg.Trials)
	}
	if cfg.Seed != 99 {
		t.Errorf("seed = %d, want the env override", cfg.Seed)
	}

	pinned := (&Config{Trials: 5, Seed: 7}).withDefaults()
	if pinned.Trials != 5 || pinned.Seed != 7 {
		t.Error("explicit fields must beat the environment")
	}
}

func TestSizeFor(t *testing.T) {
	cfg := (&Config{Trials: 11, MinSize: 0, MaxSize: 100}).withDefaults()

	if got := cfg.sizeFor(0); got != 0 {
		t.Errorf("first trial size = %d, want MinSize", got)
	}
	if got := cfg.sizeFor(10); got != 100 {
		t.Errorf("last trial size = %d, want MaxSize", got)
	}
	if got := cfg.sizeFor(999); got != 100 {
		t.Errorf("size beyond the run = %d, want MaxSize", got)
	}

	prev := -1
	for trial := 0; trial < 11; trial++ {
		got := cfg.sizeFor(trial)
		if got < prev {
			t.Fatalf("size shrank from %d to %d at trial %d", prev, got, trial)
		}
		if got < 0 || got > 100 {
			t.Fatalf("size %d out of bounds", got)
		}
		prev = got
	}

	single := (&Config{Trials: 1, MaxSize: 42}).withDefaults()
	if got := single.sizeFor(0); got != 42 {
		t.Errorf("single trial size = %d, want MaxSize", got)
	}
}
