package channel

import (
	"fmt"
	"math"
)

// Rounding selects how a fractional channel value becomes a byte.
type Rounding int

const (
	RoundHalfUp Rounding = iota
	RoundHalfEven
	Truncate
)

const DefaultRounding = RoundHalfUp

var roundingNames = map[Rounding]string{
	RoundHalfUp:   "half-up",
	RoundHalfEven: "half-even",
	Truncate:      "truncate",
}

func (r Rounding) String() string {
	if s, ok := roundingNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Rounding(%d)", int(r))
}

// ParseRounding accepts the names printed by String.
func ParseRounding(s string) (Rounding, error) {
	for r, name := range roundingNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rounding policy %q", s)
}

// Byte rounds x and clamps it to [0, 255].
func (r Rounding) Byte(x float64) byte {
	switch r {
	case RoundHalfEven:
		x = math.RoundToEven(x)
	case Truncate:
		x = math.Trunc(x)
	default:
		x = math.Floor(x + 0.5)
	}
	return clamp(x)
}

// Div returns sum/div rounded and clamped to [0, 255]. div must not be 0.
func (r Rounding) Div(sum, div uint64) byte {
	q, rem := sum/div, sum%div
	switch r {
	case RoundHalfEven:
		if 2*rem > div || (2*rem == div && q%2 == 1) {
			q++
		}
	case Truncate:
	default:
		if 2*rem >= div {
			q++
		}
	}
	return byte(min(q, 255))
}
