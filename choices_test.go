package quirk

import (
	"testing"
)

func seq(values ...int64) *Choices {
	draws := make([]Draw, len(values))
	for i, v := range values {
		draws[i] = Draw{Low: 0, High: 100, Value: v}
	}
	return NewChoices(draws)
}

var simplerCases = []struct {
	name string
	a, b *Choices
	want bool
}{
	{"shorter wins", seq(99, 99), seq(0, 0, 0), true},
	{"longer loses", seq(0, 0, 0), seq(99, 99), false},
	{"equal is not simpler", seq(5, 5), seq(5, 5), false},
	{"first differing value decides", seq(3, 9), seq(4, 0), true},
	{"later values break ties", seq(4, 1), seq(4, 2), true},
	{"empty is simplest", seq(), seq(0), true},
	{"nothing beats empty", seq(0), seq(), false},
}

func TestSimpler(t *testing.T) {
	for _, tc := range simplerCases {
		if got := tc.a.Simpler(tc.b); got != tc.want {
			t.Errorf("%s: Simpler(%v, %v) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewChoices([]Draw{{0, 10, 3}, {0, 1, 1}})
	b := NewChoices([]Draw{{0, 10, 3}, {0, 1, 1}})
	if !a.Equal(b) {
		t.Error("identical sequences should be equal")
	}
	// same values, different range
	c := NewChoices([]Draw{{0, 20, 3}, {0, 1, 1}})
	if a.Equal(c) {
		t.Error("sequences with different ranges should not be equal")
	}
	if a.Equal(seq(3)) {
		t.Error("sequences with different lengths should not be equal")
	}
}

func TestTextRoundTrip(t *testing.T) {
	in := NewChoices([]Draw{{0, 100, 42}, {-20, -1, -20}, {0, 1, 1}})
	text, err := in.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(text) != "0:100:42,-20:-1:-20,0:1:1" {
		t.Errorf("unexpected encoding %q", text)
	}
	var out Choices
	if err := out.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Equal(&out) {
		t.Errorf("round trip changed sequence: %v != %v", in, &out)
	}

	var empty Choices
	if err := empty.UnmarshalText(nil); err != nil {
		t.Fatalf("empty unmarshal: %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("empty input decoded to %d draws", empty.Len())
	}
}

var badTextCases = []string{
	"0:100",
	"0:100:42:7",
	"x:100:42",
	"0:y:42",
	"0:100:z",
	"100:0:42",
	"0:100:42,,0:1:1",
}

func TestTextMalformed(t *testing.T) {
	for _, tc := range badTextCases {
		var c Choices
		if err := c.UnmarshalText([]byte(tc)); err == nil {
			t.Errorf("expected error decoding %q", tc)
		}
	}
}

func TestDigest(t *testing.T) {
	a := seq(1, 2, 3)
	b := seq(1, 2, 3)
	if a.Digest() != b.Digest() {
		t.Error("equal sequences must share a digest")
	}
	if a.Digest() == seq(1, 2, 4).Digest() {
		t.Error("different values should change the digest")
	}
	if a.Digest() == seq(1, 2).Digest() {
		t.Error("different lengths should change the digest")
	}
	// ranges are part of the identity, not just values
	if seq(5).Digest() == NewChoices([]Draw{{0, 10, 5}}).Digest() {
		t.Error("different ranges should change the digest")
	}
}

func TestEdits(t *testing.T) {
	base := seq(7, 8, 9)

	trunc := base.truncate(1)
	if trunc.Len() != 1 || trunc.At(0).Value != 7 {
		t.Errorf("truncate(1) = %v", trunc)
	}

	set := base.setValue(1, 0)
	if got := set.Values(); got[0] != 7 || got[1] != 0 || got[2] != 9 {
		t.Errorf("setValue(1, 0) = %v", set)
	}

	del := base.deleteAt(1)
	if got := del.Values(); del.Len() != 2 || got[0] != 7 || got[1] != 9 {
		t.Errorf("deleteAt(1) = %v", del)
	}

	swap := base.swapAt(0)
	if got := swap.Values(); got[0] != 8 || got[1] != 7 || got[2] != 9 {
		t.Errorf("swapAt(0) = %v", swap)
	}

	// edits must never alias the original
	if base.At(1).Value != 8 || base.Len() != 3 {
		t.Errorf("edit mutated the base sequence: %v", base)
	}
}
