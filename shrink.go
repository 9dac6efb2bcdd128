package quirk

import (
	"context"
	"errors"

	"github.com/golang/groupcache/lru"
	"github.com/sirupsen/logrus"

	"github.com/fnproject/quirk/common"
)

// shrinkSeenEntries bounds the digest cache of candidates already tried and
// found not to improve. Eviction only costs re-replaying a candidate.
const shrinkSeenEntries = 4096

// shrinker walks a failing choice sequence down the simplicity order. Each
// pass proposes edits in a fixed priority: drop a suffix, floor one draw,
// binary-search one draw toward its floor, delete one draw, swap adjacent
// draws. The first edit whose replay still fails the property is accepted
// and the pass restarts from the new sequence; a full pass with no
// acceptance means a local minimum.
//
// Every accepted edit is strictly simpler than its predecessor, so shrinking
// terminates on its own; the step budget is a safety cap for expensive
// properties, not the termination argument.
type shrinker[T any] struct {
	gen    Generator[T]
	prop   func(T) error
	budget int
	size   int

	steps     int
	shrinks   int
	budgetHit bool

	best    *Choices
	bestVal T
	bestErr error

	// seen holds digests of candidates that did not improve. Accepted
	// candidates are never cached, so a hit is always safe to skip.
	seen *lru.Cache
}

func newShrinker[T any](gen Generator[T], prop func(T) error, budget, size int) *shrinker[T] {
	return &shrinker[T]{
		gen:    gen,
		prop:   prop,
		budget: budget,
		size:   size,
		seen:   lru.New(shrinkSeenEntries),
	}
}

// shrink minimizes c, a sequence known to replay to val with diagnostic diag.
func (sh *shrinker[T]) shrink(ctx context.Context, c *Choices, val T, diag error) ShrinkResult[T] {
	sh.best, sh.bestVal, sh.bestErr = c, val, diag

	log := common.Logger(ctx)
	log.WithFields(logrus.Fields{"draws": c.Len()}).Debug("shrinking counterexample")

	for !sh.stop(ctx) {
		if !sh.pass(ctx) {
			break
		}
	}

	log.WithFields(logrus.Fields{
		"draws":           sh.best.Len(),
		"steps":           sh.steps,
		"shrinks":         sh.shrinks,
		"budget_exceeded": sh.budgetHit,
	}).Debug("shrink finished")

	return ShrinkResult[T]{
		Choices:        sh.best,
		Value:          sh.bestVal,
		Steps:          sh.steps,
		Shrinks:        sh.shrinks,
		BudgetExceeded: sh.budgetHit,
	}
}

// pass tries one round of edits against the current best. It returns true
// as soon as an edit is accepted, false after a full round without one.
func (sh *shrinker[T]) pass(ctx context.Context) bool {
	n := sh.best.Len()

	// drop a suffix, shortest survivor first
	for keep := 0; keep < n; keep++ {
		if sh.stop(ctx) {
			return false
		}
		if sh.try(sh.best.truncate(keep)) {
			return true
		}
	}

	// floor a single draw
	for i := 0; i < n; i++ {
		if sh.stop(ctx) {
			return false
		}
		d := sh.best.At(i)
		if d.Value > d.Low && sh.try(sh.best.setValue(i, d.Low)) {
			return true
		}
	}

	// binary-search a single draw toward its floor
	for i := 0; i < n; i++ {
		if sh.stop(ctx) {
			return false
		}
		if sh.bisect(ctx, i) {
			return true
		}
	}

	// delete a single draw, shifting the rest left
	for i := 0; i < n; i++ {
		if sh.stop(ctx) {
			return false
		}
		if sh.try(sh.best.deleteAt(i)) {
			return true
		}
	}

	// swap adjacent draws when that lowers the earlier one
	for i := 0; i+1 < n; i++ {
		if sh.stop(ctx) {
			return false
		}
		if sh.best.At(i).Value > sh.best.At(i+1).Value && sh.try(sh.best.swapAt(i)) {
			return true
		}
	}

	return false
}

func (sh *shrinker[T]) stop(ctx context.Context) bool {
	return sh.budgetHit || ctx.Err() != nil
}

// try replays cand and accepts it as the new best if it is strictly simpler
// and still fails the property. Rejected generations, passes and skips all
// count as non-improvements.
func (sh *shrinker[T]) try(cand *Choices) bool {
	if !cand.Simpler(sh.best) {
		return false
	}
	dig := cand.Digest()
	if _, dup := sh.seen.Get(dig); dup {
		return false
	}
	if sh.steps >= sh.budget {
		sh.budgetHit = true
		return false
	}
	sh.steps++
	v, err := sh.gen.Generate(newReplaySource(cand, sh.size))
	if err == nil {
		if perr := sh.prop(v); perr != nil && !errors.Is(perr, ErrSkip) {
			sh.accept(cand, v, perr)
			return true
		}
	}
	sh.seen.Add(dig, true)
	return false
}

// bisect binary-searches draw i's value toward its range low, keeping the
// smallest value that still fails. The floor itself was already tried by the
// flooring stage, so the search starts with it as the known-passing bound.
func (sh *shrinker[T]) bisect(ctx context.Context, i int) bool {
	base := sh.best
	d := base.At(i)
	lo, hi := d.Low, d.Value

	var (
		found bool
		cand  *Choices
		val   T
		diag  error
	)

	for lo+1 < hi {
		if sh.stop(ctx) {
			break
		}
		mid := lo + (hi-lo)/2
		c := base.setValue(i, mid)
		dig := c.Digest()
		if _, dup := sh.seen.Get(dig); dup {
			lo = mid
			continue
		}
		if sh.steps >= sh.budget {
			sh.budgetHit = true
			break
		}
		sh.steps++
		v, err := sh.gen.Generate(newReplaySource(c, sh.size))
		if err == nil {
			if perr := sh.prop(v); perr != nil && !errors.Is(perr, ErrSkip) {
				found, cand, val, diag = true, c, v, perr
				hi = mid
				continue
			}
		}
		sh.seen.Add(dig, true)
		lo = mid
	}

	if !found {
		return false
	}
	sh.accept(cand, val, diag)
	return true
}

func (sh *shrinker[T]) accept(c *Choices, v T, diag error) {
	sh.best, sh.bestVal, sh.bestErr = c, v, diag
	sh.shrinks++
}
