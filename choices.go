package quirk

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/dchest/siphash"
)

// Draw is a single recorded primitive draw: the inclusive range that was
// requested and the value that came back.
type Draw struct {
	Low   int64
	High  int64
	Value int64
}

// Choices is the recorded sequence of draws behind one generated value.
// Replaying the same generator against it reproduces the value; replaying
// against an edited copy yields a nearby, usually simpler value. A sequence
// is immutable once built, the edit methods return fresh copies.
type Choices struct {
	draws []Draw
}

// NewChoices builds a sequence from a copy of draws.
func NewChoices(draws []Draw) *Choices {
	c := &Choices{draws: make([]Draw, len(draws))}
	copy(c.draws, draws)
	return c
}

// Len reports the number of recorded draws. Safe on a nil sequence.
func (c *Choices) Len() int {
	if c == nil {
		return 0
	}
	return len(c.draws)
}

// At returns the i-th draw.
func (c *Choices) At(i int) Draw {
	return c.draws[i]
}

// Values returns a copy of the drawn values in order.
func (c *Choices) Values() []int64 {
	vs := make([]int64, len(c.draws))
	for i, d := range c.draws {
		vs[i] = d.Value
	}
	return vs
}

// Equal reports whether both sequences hold identical draws, ranges included.
func (c *Choices) Equal(o *Choices) bool {
	if c.Len() != o.Len() {
		return false
	}
	for i, d := range c.draws {
		if d != o.draws[i] {
			return false
		}
	}
	return true
}

// Simpler reports whether c is strictly simpler than o: shorter wins, and at
// equal length the first differing value decides. Every edit the shrinker
// accepts moves strictly down this order, which is what guarantees shrinking
// terminates regardless of budget.
func (c *Choices) Simpler(o *Choices) bool {
	if c.Len() != o.Len() {
		return c.Len() < o.Len()
	}
	for i, d := range c.draws {
		if d.Value != o.draws[i].Value {
			return d.Value < o.draws[i].Value
		}
	}
	return false
}

// "QuirkSeq"
const sipSeqKey = 0x517569726b536571

// Digest returns a stable 64-bit fingerprint of the full sequence, used to
// dedupe shrink candidates and key cached failure lookups.
func (c *Choices) Digest() uint64 {
	buf := make([]byte, 0, 24*len(c.draws))
	var b [8]byte
	for _, d := range c.draws {
		binary.LittleEndian.PutUint64(b[:], uint64(d.Low))
		buf = append(buf, b[:]...)
		binary.LittleEndian.PutUint64(b[:], uint64(d.High))
		buf = append(buf, b[:]...)
		binary.LittleEndian.PutUint64(b[:], uint64(d.Value))
		buf = append(buf, b[:]...)
	}
	return siphash.Hash(0, sipSeqKey, buf)
}

func (c *Choices) String() string {
	b, _ := c.MarshalText()
	return string(b)
}

// MarshalText encodes the sequence as "low:high:value" triples joined by
// commas, the format stored in failure records.
func (c *Choices) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for i, d := range c.draws {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(d.Low, 10))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatInt(d.High, 10))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatInt(d.Value, 10))
	}
	return []byte(sb.String()), nil
}

// UnmarshalText decodes the MarshalText format. An empty input is a valid
// empty sequence.
func (c *Choices) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		c.draws = nil
		return nil
	}
	parts := strings.Split(s, ",")
	draws := make([]Draw, len(parts))
	for i, p := range parts {
		fields := strings.Split(p, ":")
		if len(fields) != 3 {
			return fmt.Errorf("choices: malformed draw %q", p)
		}
		var err error
		if draws[i].Low, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
			return fmt.Errorf("choices: bad low in %q: %v", p, err)
		}
		if draws[i].High, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
			return fmt.Errorf("choices: bad high in %q: %v", p, err)
		}
		if draws[i].Value, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
			return fmt.Errorf("choices: bad value in %q: %v", p, err)
		}
		if draws[i].Low > draws[i].High {
			return fmt.Errorf("choices: inverted range in %q", p)
		}
	}
	c.draws = draws
	return nil
}

// truncate keeps the first n draws.
func (c *Choices) truncate(n int) *Choices {
	return NewChoices(c.draws[:n])
}

// setValue replaces the value of draw i, keeping its range.
func (c *Choices) setValue(i int, v int64) *Choices {
	n := NewChoices(c.draws)
	n.draws[i].Value = v
	return n
}

// deleteAt removes draw i, shifting the remainder left.
func (c *Choices) deleteAt(i int) *Choices {
	draws := make([]Draw, 0, len(c.draws)-1)
	draws = append(draws, c.draws[:i]...)
	draws = append(draws, c.draws[i+1:]...)
	return &Choices{draws: draws}
}

// swapAt exchanges draws i and i+1 whole, ranges included.
func (c *Choices) swapAt(i int) *Choices {
	n := NewChoices(c.draws)
	n.draws[i], n.draws[i+1] = n.draws[i+1], n.draws[i]
	return n
}
