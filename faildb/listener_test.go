package faildb

import (
	"context"
	"fmt"
	"testing"

	"github.com/fnproject/quirk"
	"github.com/fnproject/quirk/faildb/internal/faildbtest"
)

func TestSaveListener(t *testing.T) {
	ctx := context.Background()
	fs := NewMock()
	l := NewSaveListener(fs)

	if err := l.BeforeRun(ctx, &quirk.RunReport{}); err != nil {
		t.Fatalf("expected BeforeRun to pass, got %v", err)
	}
	if err := l.AfterRun(ctx, &quirk.RunReport{}); err != nil {
		t.Fatalf("expected AfterRun to pass, got %v", err)
	}

	rec := faildbtest.Record("0001", "listener.prop")
	if err := l.OnFailure(ctx, rec); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	got, err := fs.GetFailure(ctx, "listener.prop", "0001")
	if err != nil {
		t.Fatalf("expected stored record, got error %v", err)
	}
	if got.Choices != rec.Choices {
		t.Fatalf("expected stored choices %q, got %q", rec.Choices, got.Choices)
	}

	// storing the same record again is not an error
	if err := l.OnFailure(ctx, rec); err != nil {
		t.Fatalf("expected duplicate to be swallowed, got %v", err)
	}
}

func TestLoadKnown(t *testing.T) {
	ctx := context.Background()
	fs := NewMockInit([]*quirk.FailureRecord{
		faildbtest.Record("0001", "load.prop"),
		faildbtest.Record("0002", "load.prop"),
		faildbtest.Record("0003", "load.other"),
	})

	known, err := LoadKnown(ctx, fs, "load.prop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("expected 2 replay entries, got %d", len(known))
	}
	for _, k := range known {
		if k.Choices.Len() != 2 {
			t.Fatalf("expected 2 decoded draws, got %d", k.Choices.Len())
		}
		if k.Size != 100 {
			t.Fatalf("expected recorded size 100, got %d", k.Size)
		}
	}
}

func TestKnown(t *testing.T) {
	ctx := context.Background()
	fs := NewMockInit([]*quirk.FailureRecord{faildbtest.Record("0001", "yours.prop")})

	k, err := Known(ctx, fs, "yours.prop", "0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Choices.Len() != 2 || k.Size != 100 {
		t.Fatalf("unexpected replay entry: %+v", k)
	}

	// record exists, but under another property
	_, err = Known(ctx, fs, "mine.prop", "0001")
	if err != quirk.ErrReplayMismatch {
		t.Fatalf("expected %v, got %v", quirk.ErrReplayMismatch, err)
	}

	// record does not exist at all
	_, err = Known(ctx, fs, "mine.prop", "0002")
	if err != quirk.ErrRecordNotFound {
		t.Fatalf("expected %v, got %v", quirk.ErrRecordNotFound, err)
	}

	// empty property matches any record
	if _, err := Known(ctx, fs, "", "0001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	fs := NewMock()

	failsAtOrAbove := func(v int64) error {
		if v >= 50 {
			return fmt.Errorf("%d is too big", v)
		}
		return nil
	}
	g := quirk.New("ints", func(s *quirk.Source) (int64, error) {
		return s.Int63Between(0, 100), nil
	})

	res := quirk.Run(ctx, g, failsAtOrAbove, &quirk.Config{
		Name:      "roundtrip.prop",
		Seed:      42,
		Trials:    100,
		Listeners: []quirk.RunListener{NewSaveListener(fs)},
	})
	if res.Status != quirk.RunFailed {
		t.Fatalf("expected RunFailed, got %v", res.Status)
	}
	if res.Failure.Value != 50 {
		t.Fatalf("expected minimal counterexample 50, got %d", res.Failure.Value)
	}

	known, err := LoadKnown(ctx, fs, "roundtrip.prop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(known) != 1 {
		t.Fatalf("expected 1 stored failure, got %d", len(known))
	}

	// a later run replays the stored failure before any fresh trials
	res = quirk.Run(ctx, g, failsAtOrAbove, &quirk.Config{
		Name:   "roundtrip.prop",
		Seed:   7,
		Trials: 100,
		Replay: known,
	})
	if res.Status != quirk.RunFailed {
		t.Fatalf("expected replayed failure, got %v", res.Status)
	}
	if !res.Failure.Replayed {
		t.Fatal("expected the failure to come from replay")
	}
	if res.Failure.Value != 50 {
		t.Fatalf("expected replayed counterexample 50, got %d", res.Failure.Value)
	}
}
