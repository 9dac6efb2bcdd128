package quirk

import (
	"fmt"

	"github.com/fnproject/quirk/common"
)

// Generator produces values of T by drawing primitives from a Source. The
// same function serves both live generation and replay; a generator must not
// consult randomness from anywhere but the source it is handed, or replay
// and shrinking fall apart.
type Generator[T any] struct {
	label string
	fn    func(*Source) (T, error)
}

// New wraps fn as a generator. The label shows up in logs and as the default
// property name, keep it short.
func New[T any](label string, fn func(*Source) (T, error)) Generator[T] {
	return Generator[T]{label: label, fn: fn}
}

// Generate draws one value from s.
func (g Generator[T]) Generate(s *Source) (T, error) {
	return g.fn(s)
}

// Label returns the generator's label.
func (g Generator[T]) Label() string {
	return g.label
}

// WithLabel returns a copy of g carrying the given label.
func (g Generator[T]) WithLabel(label string) Generator[T] {
	g.label = label
	return g
}

// Const always yields v and records no draws, so it shrinks to itself.
func Const[T any](v T) Generator[T] {
	return New(fmt.Sprintf("const(%v)", v), func(*Source) (T, error) {
		return v, nil
	})
}

// Map applies f to every generated value. The mapped generator records
// exactly the draws of g, so shrinking passes straight through f.
func Map[T, U any](g Generator[T], f func(T) U) Generator[U] {
	return New(fmt.Sprintf("map(%s)", g.label), func(s *Source) (U, error) {
		v, err := g.fn(s)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v), nil
	})
}

// Map2 combines two generators drawing from the same source in order.
func Map2[A, B, C any](ga Generator[A], gb Generator[B], f func(A, B) C) Generator[C] {
	return New(fmt.Sprintf("map2(%s, %s)", ga.label, gb.label), func(s *Source) (C, error) {
		var zero C
		a, err := ga.fn(s)
		if err != nil {
			return zero, err
		}
		b, err := gb.fn(s)
		if err != nil {
			return zero, err
		}
		return f(a, b), nil
	})
}

// Map3 combines three generators drawing from the same source in order.
func Map3[A, B, C, D any](ga Generator[A], gb Generator[B], gc Generator[C], f func(A, B, C) D) Generator[D] {
	return New(fmt.Sprintf("map3(%s, %s, %s)", ga.label, gb.label, gc.label), func(s *Source) (D, error) {
		var zero D
		a, err := ga.fn(s)
		if err != nil {
			return zero, err
		}
		b, err := gb.fn(s)
		if err != nil {
			return zero, err
		}
		c, err := gc.fn(s)
		if err != nil {
			return zero, err
		}
		return f(a, b, c), nil
	})
}

// Bind sequences a dependent generator: f picks the follow-up generator from
// the first draw's value. Both stages record into the same sequence, so a
// shrink that changes the first stage reshapes the second on replay.
func Bind[T, U any](g Generator[T], f func(T) Generator[U]) Generator[U] {
	return New(fmt.Sprintf("bind(%s)", g.label), func(s *Source) (U, error) {
		v, err := g.fn(s)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v).fn(s)
	})
}

// Sized builds the generator from the current trial's size hint. Size grows
// linearly from Config.MinSize to Config.MaxSize over a run, so early trials
// probe small inputs and later ones large.
func Sized[T any](f func(size int) Generator[T]) Generator[T] {
	return New("sized", func(s *Source) (T, error) {
		return f(s.Size()).fn(s)
	})
}

// Filter discards generated values failing pred, retrying on more of the
// source up to DefaultFilterRetries times before giving up with ErrRejected.
func (g Generator[T]) Filter(pred func(T) bool) Generator[T] {
	return Filtered(g, pred, DefaultFilterRetries)
}

// Filtered is Filter with an explicit retry cap for predicates that reject
// most of the underlying range.
func Filtered[T any](g Generator[T], pred func(T) bool, retries int) Generator[T] {
	if retries <= 0 {
		retries = DefaultFilterRetries
	}
	return New(fmt.Sprintf("filter(%s)", g.label), func(s *Source) (T, error) {
		for i := 0; i < retries; i++ {
			v, err := g.fn(s)
			if err != nil {
				return v, err
			}
			if pred(v) {
				return v, nil
			}
		}
		var zero T
		return zero, ErrRejected
	})
}

// "sample"
const sipSampleTag = 0x73616d706c65

// Sample draws n values from g on a fresh random seed, for eyeballing what a
// generator produces.
func Sample[T any](g Generator[T], n int) ([]T, error) {
	return SampleSeeded(g, common.RandomSeed(), n)
}

// SampleSeeded draws n values from g, each on an independent stream derived
// from seed. The same seed always yields the same samples.
func SampleSeeded[T any](g Generator[T], seed int64, n int) ([]T, error) {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		src := newSource(deriveSeed(seed, sipSampleTag, uint64(i)), DefaultMaxSize)
		v, err := g.Generate(src)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
