package gen

import (
	"fmt"

	"github.com/fnproject/quirk"
)

// SliceOf draws a sized-length slice of elements. Shrinks by dropping
// elements from the tail, then shrinking the survivors.
func SliceOf[T any](elem quirk.Generator[T]) quirk.Generator[[]T] {
	return quirk.New(fmt.Sprintf("sliceOf(%s)", elem.Label()), func(s *quirk.Source) ([]T, error) {
		n := s.Int63Between(0, int64(s.Size()))
		out := make([]T, 0, n)
		for i := int64(0); i < n; i++ {
			v, err := elem.Generate(s)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// SliceOfN draws exactly n elements.
func SliceOfN[T any](n int, elem quirk.Generator[T]) quirk.Generator[[]T] {
	if n < 0 {
		panic(fmt.Sprintf("gen: negative slice length %d", n))
	}
	return quirk.New(fmt.Sprintf("sliceOfN(%d, %s)", n, elem.Label()), func(s *quirk.Source) ([]T, error) {
		out := make([]T, 0, n)
		for i := 0; i < n; i++ {
			v, err := elem.Generate(s)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// MapOf draws a map with sized size. Duplicate keys collapse, so the result
// may be smaller than the length drawn.
func MapOf[K comparable, V any](key quirk.Generator[K], val quirk.Generator[V]) quirk.Generator[map[K]V] {
	return quirk.New(fmt.Sprintf("mapOf(%s, %s)", key.Label(), val.Label()), func(s *quirk.Source) (map[K]V, error) {
		n := s.Int63Between(0, int64(s.Size()))
		out := make(map[K]V, n)
		for i := int64(0); i < n; i++ {
			k, err := key.Generate(s)
			if err != nil {
				return nil, err
			}
			v, err := val.Generate(s)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	})
}
