// Package gen provides ready-made generators for common shapes: ints, bools,
// strings, slices and maps, plus combinators for choosing between
// alternatives. Everything here shrinks the way the engine shrinks draws:
// range draws move toward their low end, choices move toward the first
// alternative, collections lose elements. Generators that should shrink
// toward zero (Int, Nat) encode sign and magnitude as separate draws so the
// minimum really is zero.
package gen

import (
	"fmt"

	"github.com/fnproject/quirk"
)

// Int64Range draws uniformly from [low, high], both ends inclusive. Shrinks
// toward low, whatever its sign.
func Int64Range(low, high int64) quirk.Generator[int64] {
	if low > high {
		panic(fmt.Sprintf("gen: invalid range [%d, %d]", low, high))
	}
	return quirk.New(fmt.Sprintf("int64[%d,%d]", low, high), func(s *quirk.Source) (int64, error) {
		return s.Int63Between(low, high), nil
	})
}

// IntRange is Int64Range for plain ints.
func IntRange(low, high int) quirk.Generator[int] {
	g := Int64Range(int64(low), int64(high))
	return quirk.New(fmt.Sprintf("int[%d,%d]", low, high), func(s *quirk.Source) (int, error) {
		v, err := g.Generate(s)
		return int(v), err
	})
}

// Int draws sized signed integers in [-size, size] as separate magnitude and
// sign draws, so shrinking lands on 0 rather than the most negative value.
func Int() quirk.Generator[int] {
	return quirk.New("int", func(s *quirk.Source) (int, error) {
		m := int(s.Int63Between(0, int64(s.Size())))
		if s.Bool() {
			return -m, nil
		}
		return m, nil
	})
}

// Nat draws sized non-negative integers in [0, size]. Shrinks toward 0.
func Nat() quirk.Generator[int] {
	return quirk.New("nat", func(s *quirk.Source) (int, error) {
		return int(s.Int63Between(0, int64(s.Size()))), nil
	})
}

// Bool draws a coin flip. Shrinks toward false.
func Bool() quirk.Generator[bool] {
	return quirk.New("bool", func(s *quirk.Source) (bool, error) {
		return s.Bool(), nil
	})
}

// OneOf draws from one of the given generators, chosen uniformly. The choice
// shrinks toward the first alternative, so list the simplest one first.
func OneOf[T any](gens ...quirk.Generator[T]) quirk.Generator[T] {
	if len(gens) == 0 {
		panic("gen: OneOf needs at least one alternative")
	}
	return quirk.New("oneOf", func(s *quirk.Source) (T, error) {
		i := s.Int63Between(0, int64(len(gens)-1))
		return gens[i].Generate(s)
	})
}

// OneConstOf draws one of the given values. Shrinks toward the first.
func OneConstOf[T any](values ...T) quirk.Generator[T] {
	if len(values) == 0 {
		panic("gen: OneConstOf needs at least one value")
	}
	return quirk.New("oneConstOf", func(s *quirk.Source) (T, error) {
		return values[s.Int63Between(0, int64(len(values)-1))], nil
	})
}

// WeightedGen pairs a generator with its relative weight.
type WeightedGen[T any] struct {
	Weight int64
	Gen    quirk.Generator[T]
}

// Weighted draws from the given generators with probability proportional to
// their weights. Shrinks toward the first alternative.
func Weighted[T any](choices []WeightedGen[T]) quirk.Generator[T] {
	if len(choices) == 0 {
		panic("gen: Weighted needs at least one alternative")
	}
	var total int64
	for _, c := range choices {
		if c.Weight <= 0 {
			panic(fmt.Sprintf("gen: weight %d is not positive", c.Weight))
		}
		total += c.Weight
	}
	return quirk.New("weighted", func(s *quirk.Source) (T, error) {
		r := s.Int63Between(0, total-1)
		for _, c := range choices {
			if r < c.Weight {
				return c.Gen.Generate(s)
			}
			r -= c.Weight
		}
		// unreachable, the draw is bounded by the summed weights
		return choices[len(choices)-1].Gen.Generate(s)
	})
}
