package quirk

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/dchest/siphash"
)

// "QuirkRng"
const sipSeedKey = 0x517569726b526e67

// deriveSeed folds two counters into a parent seed so that every trial,
// retry attempt and split child gets an independent, reproducible stream.
func deriveSeed(seed int64, a, b uint64) int64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:16], a)
	binary.LittleEndian.PutUint64(buf[16:24], b)
	return int64(siphash.Hash(0, sipSeedKey, buf[:]))
}

// Source hands primitive draws to generators. A live source draws from a
// seeded PRNG and records every draw; a replay source feeds back a recorded
// sequence instead, remapping stored values into whatever range the replayed
// generator asks for. Either way the generator code is identical, which is
// what lets an edited recording be replayed through it.
//
// A Source is not safe for concurrent use; generators run on one goroutine.
type Source struct {
	rng  *rand.Rand // nil in replay mode
	seed int64
	size int

	rec []Draw // live recording

	replay    []Draw // fixed draws being replayed
	cursor    int
	exhausted bool

	children int
}

// NewSource returns a live, recording source. Most callers go through Run or
// Sample; building one directly is for driving generators by hand.
func NewSource(seed int64) *Source {
	return newSource(seed, DefaultMaxSize)
}

func newSource(seed int64, size int) *Source {
	return &Source{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
		size: size,
	}
}

// NewReplaySource returns a source that replays c instead of drawing fresh
// randomness. Once the sequence runs dry every draw yields the range minimum,
// so replaying a truncated recording still terminates with a value.
func NewReplaySource(c *Choices) *Source {
	return newReplaySource(c, DefaultMaxSize)
}

func newReplaySource(c *Choices, size int) *Source {
	s := &Source{size: size}
	if c != nil {
		s.replay = c.draws
	}
	return s
}

// Int63Between draws an integer in [low, high], both ends inclusive. The
// span must be expressible as a positive int64.
func (s *Source) Int63Between(low, high int64) int64 {
	span := high - low + 1
	if span <= 0 {
		panic(fmt.Sprintf("source: invalid draw range [%d, %d]", low, high))
	}
	if s.rng == nil {
		return s.replayOne(low, span)
	}
	v := low + s.rng.Int63n(span)
	s.rec = append(s.rec, Draw{Low: low, High: high, Value: v})
	return v
}

// replayOne maps the next stored value into [low, low+span). Stored values
// keep their meaning when the requested range matches the recorded one and
// degrade to a modulus otherwise, which keeps replay total: it never errors,
// it only drifts.
func (s *Source) replayOne(low, span int64) int64 {
	if s.cursor >= len(s.replay) {
		s.exhausted = true
		return low
	}
	v := s.replay[s.cursor].Value
	s.cursor++
	m := v % span
	if m < 0 {
		m += span
	}
	return low + m
}

// Bool draws a coin flip, recorded as a [0, 1] draw.
func (s *Source) Bool() bool {
	return s.Int63Between(0, 1) == 1
}

// Size reports the size hint for the current trial. Sized generators scale
// collection lengths and magnitudes with it.
func (s *Source) Size() int {
	return s.size
}

// Split returns an independent child source at the same size. Children of a
// live source are live with a derived seed and record separately; children
// of a replay source start exhausted, so anything drawn through them comes
// out at range minimums. Splitting is for driver code that needs auxiliary
// randomness without disturbing the recorded sequence.
func (s *Source) Split() *Source {
	s.children++
	if s.rng == nil {
		return newReplaySource(nil, s.size)
	}
	return newSource(deriveSeed(s.seed, 0x73706c6974, uint64(s.children)), s.size)
}

// recording returns a snapshot of the draws made so far.
func (s *Source) recording() *Choices {
	return NewChoices(s.rec)
}

// drained reports whether a replay ran past the end of its sequence.
func (s *Source) drained() bool {
	return s.exhausted
}
