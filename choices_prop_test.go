package quirk

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func drawGenerator() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(-50, 50),
		gen.Int64Range(0, 100),
		gen.Int64Range(-50, 150),
	).Map(func(vs []interface{}) Draw {
		low := vs[0].(int64)
		high := low + vs[1].(int64)
		v := vs[2].(int64)
		if v < low {
			v = low
		}
		if v > high {
			v = high
		}
		return Draw{Low: low, High: high, Value: v}
	})
}

func choicesGenerator() gopter.Gen {
	return gen.SliceOf(drawGenerator()).Map(func(ds []Draw) *Choices {
		return NewChoices(ds)
	})
}

func TestChoicesProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a sequence is never simpler than itself", prop.ForAll(
		func(c *Choices) bool {
			return !c.Simpler(c)
		},
		choicesGenerator(),
	))

	properties.Property("the text encoding round trips", prop.ForAll(
		func(c *Choices) bool {
			text, err := c.MarshalText()
			if err != nil {
				return false
			}
			var out Choices
			if err := out.UnmarshalText(text); err != nil {
				return false
			}
			return c.Equal(&out)
		},
		choicesGenerator(),
	))

	properties.Property("copies share a digest", prop.ForAll(
		func(c *Choices) bool {
			return c.Digest() == NewChoices(c.draws).Digest()
		},
		choicesGenerator(),
	))

	properties.Property("dropping the last draw is strictly simpler", prop.ForAll(
		func(c *Choices) bool {
			if c.Len() == 0 {
				return true
			}
			return c.truncate(c.Len()-1).Simpler(c)
		},
		choicesGenerator(),
	))

	properties.Property("flooring a draw never makes a sequence more complex", prop.ForAll(
		func(c *Choices) bool {
			if c.Len() == 0 {
				return true
			}
			floored := c.setValue(0, c.At(0).Low)
			return !c.Simpler(floored)
		},
		choicesGenerator(),
	))

	properties.TestingRun(t)
}
