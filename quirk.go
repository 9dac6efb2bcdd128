// Package quirk is a property-based testing engine built around choice
// sequences: instead of shrinking failing values structurally, the engine
// records every primitive random draw made while generating a value and
// shrinks that recording, replaying the same generator against the edited
// recording to obtain smaller failing values deterministically.
//
// A property is a func(T) error: nil passes, ErrSkip discards the trial and
// any other error fails it with that error as the diagnostic. Generators are
// built from the primitives here and the combinators in the gen package:
//
//	evens := quirk.Filtered(gen.IntRange(0, 1000), func(v int) bool { return v%2 == 0 }, 1000)
//	res := quirk.Run(ctx, evens, func(v int) error {
//		if v < 0 {
//			return fmt.Errorf("negative even %d", v)
//		}
//		return nil
//	}, nil)
//
// On failure the run reports the seed, the minimal counterexample and its
// choice sequence; feeding the sequence back through Config.Replay (or the
// faildb package) reproduces the failure without re-searching.
package quirk
