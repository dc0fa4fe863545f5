// Package channel splits interleaved 3-channel byte streams into planes and
// joins planes back, rounding and clamping intermediate values to a byte.
package channel

import (
	"errors"
	"fmt"
	"math"
)

var ErrLength = errors.New("channel length mismatch")

// Split3 deinterleaves buf into its three channel planes, in stored order.
func Split3(buf []byte) (c0, c1, c2 []byte, err error) {
	if len(buf)%3 != 0 {
		return nil, nil, nil, fmt.Errorf("%d bytes is not a whole number of triplets: %w", len(buf), ErrLength)
	}
	n := len(buf) / 3
	c0, c1, c2 = make([]byte, n), make([]byte, n), make([]byte, n)
	for i := range n {
		c0[i], c1[i], c2[i] = buf[3*i], buf[3*i+1], buf[3*i+2]
	}
	return c0, c1, c2, nil
}

// Join3 interleaves three planes of equal length.
func Join3(c0, c1, c2 []byte) ([]byte, error) {
	if len(c0) != len(c1) || len(c0) != len(c2) {
		return nil, fmt.Errorf("planes of %d, %d and %d bytes: %w", len(c0), len(c1), len(c2), ErrLength)
	}
	res := make([]byte, 0, 3*len(c0))
	for i := range c0 {
		res = append(res, c0[i], c1[i], c2[i])
	}
	return res, nil
}

// JoinMeans interleaves the means sum/div of three planes of sums. The
// division is exact integer arithmetic rounded with r.
func JoinMeans(s0, s1, s2 []uint64, div uint64, r Rounding) ([]byte, error) {
	if div == 0 {
		return nil, fmt.Errorf("zero divisor")
	}
	if len(s0) != len(s1) || len(s0) != len(s2) {
		return nil, fmt.Errorf("planes of %d, %d and %d sums: %w", len(s0), len(s1), len(s2), ErrLength)
	}
	res := make([]byte, 0, 3*len(s0))
	for i := range s0 {
		res = append(res, r.Div(s0[i], div), r.Div(s1[i], div), r.Div(s2[i], div))
	}
	return res, nil
}

// JoinFloat interleaves three planes of floating point intermediates,
// rounded with r and clamped to [0, 255]. NaN becomes 0.
func JoinFloat(f0, f1, f2 []float64, r Rounding) ([]byte, error) {
	if len(f0) != len(f1) || len(f0) != len(f2) {
		return nil, fmt.Errorf("planes of %d, %d and %d values: %w", len(f0), len(f1), len(f2), ErrLength)
	}
	res := make([]byte, 0, 3*len(f0))
	for i := range f0 {
		res = append(res, r.Byte(f0[i]), r.Byte(f1[i]), r.Byte(f2[i]))
	}
	return res, nil
}

func clamp(x float64) byte {
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= 255:
		return 255
	}
	return byte(x)
}
