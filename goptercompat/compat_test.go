package goptercompat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter/gen"

	"github.com/fnproject/quirk"
)

func failsAtOrAbove(limit int) func(int) error {
	return func(v int) error {
		if v >= limit {
			return fmt.Errorf("%d is too big", v)
		}
		return nil
	}
}

func TestBridgedIntShrinksToBoundary(t *testing.T) {
	g := Typed[int]("gopter ints", gen.IntRange(0, 100))

	res := quirk.Run(context.Background(), g, failsAtOrAbove(50), &quirk.Config{
		Name:   "goptercompat.boundary",
		Seed:   42,
		Trials: 200,
	})
	if res.Status != quirk.RunFailed {
		t.Fatalf("expected RunFailed, got %v", res.Status)
	}
	if res.Failure.Value != 50 {
		t.Fatalf("expected minimal counterexample 50, got %d", res.Failure.Value)
	}
}

func TestBridgedFailureReplays(t *testing.T) {
	g := Typed[int]("gopter ints", gen.IntRange(0, 100))
	prop := failsAtOrAbove(50)

	res := quirk.Run(context.Background(), g, prop, &quirk.Config{
		Name:   "goptercompat.replay",
		Seed:   42,
		Trials: 200,
	})
	if res.Status != quirk.RunFailed {
		t.Fatalf("expected RunFailed, got %v", res.Status)
	}

	known := []quirk.KnownFailure{{Choices: res.Failure.Choices, Size: res.Failure.Size}}
	again := quirk.Run(context.Background(), g, prop, &quirk.Config{
		Name:   "goptercompat.replay",
		Seed:   999,
		Trials: 200,
		Replay: known,
	})
	if again.Status != quirk.RunFailed {
		t.Fatalf("expected replayed failure, got %v", again.Status)
	}
	if !again.Failure.Replayed {
		t.Fatal("expected the failure to come from replay")
	}
	if again.Failure.Value != res.Failure.Value {
		t.Fatalf("expected replayed value %d, got %d", res.Failure.Value, again.Failure.Value)
	}
}

func TestBridgedSieveDiscards(t *testing.T) {
	evens := gen.IntRange(0, 100).SuchThat(func(v int) bool { return v%2 == 0 })
	g := Typed[int]("gopter evens", evens)

	res := quirk.Run(context.Background(), g, func(v int) error {
		if v%2 != 0 {
			return fmt.Errorf("odd value %d escaped the sieve", v)
		}
		return nil
	}, &quirk.Config{
		Name:   "goptercompat.sieve",
		Seed:   11,
		Trials: 200,
	})
	if res.Status != quirk.RunPassed {
		t.Fatalf("expected RunPassed, got %v (err %v)", res.Status, res.Err)
	}
	if res.Discards == 0 {
		t.Fatal("expected sieve rejections to count as discards")
	}
}

func TestTypedWrongType(t *testing.T) {
	g := Typed[string]("mismatched", gen.IntRange(0, 10))

	_, err := quirk.SampleSeeded(g, 1, 1)
	if !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected %v, got %v", ErrWrongType, err)
	}
}

func TestBridgedSliceShrinksToExactSum(t *testing.T) {
	g := Typed[[]int]("gopter int slices", gen.SliceOf(gen.IntRange(0, 10)))

	sumBelow := func(vs []int) error {
		sum := 0
		for _, v := range vs {
			sum += v
		}
		if sum >= 100 {
			return fmt.Errorf("sum %d is too big", sum)
		}
		return nil
	}

	res := quirk.Run(context.Background(), g, sumBelow, &quirk.Config{
		Name:           "goptercompat.slicesum",
		Seed:           7,
		Trials:         300,
		MinSize:        10,
		MaxShrinkSteps: 200000,
	})
	if res.Status != quirk.RunFailed {
		t.Fatalf("expected RunFailed, got %v", res.Status)
	}
	if res.Failure.BudgetExceeded {
		t.Fatal("expected the shrinker to reach a local minimum in budget")
	}

	sum := 0
	for _, v := range res.Failure.Value {
		if v < 0 || v > 10 {
			t.Fatalf("element %d escaped the generator range", v)
		}
		sum += v
	}
	if sum != 100 {
		t.Fatalf("expected the local minimum to sum to exactly 100, got %d (%v)", sum, res.Failure.Value)
	}
}
