package gen

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fnproject/quirk"
)

func TestRuneIndexesAlphabet(t *testing.T) {
	g := Rune("xyz")
	v, err := g.Generate(replayOf(quirk.Draw{Low: 0, High: 2, Value: 2}))
	if err != nil || v != 'z' {
		t.Errorf("got %q, %v", v, err)
	}
	// the floor of the draw is the first rune, the shrink target
	v, err = g.Generate(replayOf())
	if err != nil || v != 'x' {
		t.Errorf("exhausted replay chose %q, want the first rune", v)
	}
}

func TestRunePanicsOnEmptyAlphabet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	Rune("")
}

func TestLetter(t *testing.T) {
	vs, err := quirk.SampleSeeded(Letter(), 6, 100)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vs {
		if v < 'a' || v > 'z' {
			t.Fatalf("letter %q out of range", v)
		}
	}
}

func TestStringOfReplay(t *testing.T) {
	g := StringOf("ab")
	v, err := g.Generate(replayOf(
		quirk.Draw{Low: 0, High: 100, Value: 2},
		quirk.Draw{Low: 0, High: 1, Value: 1},
		quirk.Draw{Low: 0, High: 1, Value: 0},
	))
	if err != nil || v != "ba" {
		t.Errorf("got %q, %v, want \"ba\"", v, err)
	}

	// an empty replay is the shrink floor: the empty string
	v, err = g.Generate(replayOf())
	if err != nil || v != "" {
		t.Errorf("floor = %q, %v", v, err)
	}
}

func TestStringN(t *testing.T) {
	v, err := StringN(5, "ab").Generate(quirk.NewSource(11))
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 5 {
		t.Errorf("length = %d, want 5", len(v))
	}
	for _, r := range v {
		if r != 'a' && r != 'b' {
			t.Fatalf("rune %q outside alphabet", r)
		}
	}

	// the floor repeats the first rune
	v, err = StringN(3, "xyz").Generate(replayOf())
	if err != nil || v != "xxx" {
		t.Errorf("floor = %q, %v", v, err)
	}
}

func TestAlphaString(t *testing.T) {
	vs, err := quirk.SampleSeeded(AlphaString(), 12, 50)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vs {
		if len(v) > quirk.DefaultMaxSize {
			t.Fatalf("string of %d runes escaped the size hint", len(v))
		}
		for _, r := range v {
			if !strings.ContainsRune(lowerAlpha, r) {
				t.Fatalf("rune %q not lowercase", r)
			}
		}
	}
}

var identRE = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func TestIdentifierShape(t *testing.T) {
	vs, err := quirk.SampleSeeded(Identifier(), 23, 100)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vs {
		if !identRE.MatchString(v) {
			t.Fatalf("identifier %q has the wrong shape", v)
		}
	}

	// the floor is a bare "a"
	v, err := Identifier().Generate(replayOf())
	if err != nil || v != "a" {
		t.Errorf("floor = %q, %v", v, err)
	}
}
