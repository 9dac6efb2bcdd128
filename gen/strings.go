package gen

import (
	"fmt"
	"strings"

	"github.com/fnproject/quirk"
)

const (
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
	digits     = "0123456789"
)

// Rune draws one rune from the alphabet. Shrinks toward the first rune, so
// order the alphabet simplest first.
func Rune(alphabet string) quirk.Generator[rune] {
	rs := []rune(alphabet)
	if len(rs) == 0 {
		panic("gen: empty alphabet")
	}
	return quirk.New(fmt.Sprintf("rune[%d]", len(rs)), func(s *quirk.Source) (rune, error) {
		return rs[s.Int63Between(0, int64(len(rs)-1))], nil
	})
}

// Letter draws a lowercase letter. Shrinks toward 'a'.
func Letter() quirk.Generator[rune] {
	return Rune(lowerAlpha).WithLabel("letter")
}

// StringOf draws a sized-length string over the alphabet. Shrinks toward the
// empty string, then toward earlier alphabet runes.
func StringOf(alphabet string) quirk.Generator[string] {
	r := Rune(alphabet)
	return quirk.New("string", func(s *quirk.Source) (string, error) {
		n := s.Int63Between(0, int64(s.Size()))
		var sb strings.Builder
		for i := int64(0); i < n; i++ {
			c, err := r.Generate(s)
			if err != nil {
				return "", err
			}
			sb.WriteRune(c)
		}
		return sb.String(), nil
	})
}

// StringN draws exactly n runes from the alphabet.
func StringN(n int, alphabet string) quirk.Generator[string] {
	if n < 0 {
		panic(fmt.Sprintf("gen: negative string length %d", n))
	}
	r := Rune(alphabet)
	return quirk.New(fmt.Sprintf("stringN(%d)", n), func(s *quirk.Source) (string, error) {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			c, err := r.Generate(s)
			if err != nil {
				return "", err
			}
			sb.WriteRune(c)
		}
		return sb.String(), nil
	})
}

// AlphaString draws a lowercase string.
func AlphaString() quirk.Generator[string] {
	return StringOf(lowerAlpha).WithLabel("alphaString")
}

// Identifier draws a letter followed by letters, digits and underscores, the
// usual shape of a name. Shrinks toward "a".
func Identifier() quirk.Generator[string] {
	head := Letter()
	tail := Rune(lowerAlpha + digits + "_")
	return quirk.New("identifier", func(s *quirk.Source) (string, error) {
		var sb strings.Builder
		h, err := head.Generate(s)
		if err != nil {
			return "", err
		}
		sb.WriteRune(h)
		n := s.Int63Between(0, int64(s.Size()))
		for i := int64(0); i < n; i++ {
			c, err := tail.Generate(s)
			if err != nil {
				return "", err
			}
			sb.WriteRune(c)
		}
		return sb.String(), nil
	})
}
