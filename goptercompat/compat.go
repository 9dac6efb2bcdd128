// Package goptercompat runs gopter generators on the engine's recorded
// randomness. Values generate through gopter as usual, but every bit of
// entropy they consume lands in the choice sequence, so bridged generators
// replay and shrink like native ones; gopter's own shrinkers are ignored.
package goptercompat

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/leanovate/gopter"

	"github.com/fnproject/quirk"
)

// ErrWrongType means a bridged gopter generator produced a value that does
// not assert to the requested type.
var ErrWrongType = errors.New("Gopter generator produced a value of the wrong type")

// randSource adapts a quirk.Source to math/rand.Source. Each Int63 is one
// recorded draw, capped one below MaxInt64 so the span stays a positive
// int64; rand.Rand composes everything else out of Int63.
type randSource struct {
	src *quirk.Source
}

func (r *randSource) Int63() int64 {
	return r.src.Int63Between(0, math.MaxInt64-1)
}

// Seed is a no-op, the underlying source is already seeded or replaying.
func (r *randSource) Seed(int64) {}

// Params builds gopter generator parameters driven by src. MaxSize follows
// the source's size hint.
func Params(src *quirk.Source) *gopter.GenParameters {
	p := gopter.DefaultGenParameters()
	p.MaxSize = src.Size()
	p.Rng = rand.New(&randSource{src: src})
	return p
}

// FromGen adapts a gopter generator as-is. Values come out as interface{},
// the price of gopter's reflection API; use Typed to recover the static
// type. A generation whose sieve rejects the drawn value reports
// ErrRejected, which the runner counts as a discard.
func FromGen(label string, g gopter.Gen) quirk.Generator[interface{}] {
	return quirk.New(label, func(src *quirk.Source) (interface{}, error) {
		value, ok := g(Params(src)).Retrieve()
		if !ok {
			return nil, quirk.ErrRejected
		}
		return value, nil
	})
}

// Typed adapts a gopter generator whose values assert to T.
func Typed[T any](label string, g gopter.Gen) quirk.Generator[T] {
	return quirk.New(label, func(src *quirk.Source) (T, error) {
		var zero T
		value, ok := g(Params(src)).Retrieve()
		if !ok {
			return zero, quirk.ErrRejected
		}
		v, ok := value.(T)
		if !ok {
			return zero, fmt.Errorf("%w: got %T", ErrWrongType, value)
		}
		return v, nil
	})
}
