package pixbuf

import (
	"fmt"

	"dibkit/channel"
	"dibkit/vec"
)

// Upscale repeats every sample n times in place, enlarging the buffer n
// times along the sample sequence. Vertical enlargement is left to the
// caller.
func Upscale(buf []byte, n int, d Depth) ([]byte, error) {
	s, err := lookup(d)
	if err != nil {
		return nil, err
	}
	if err = checkFactor(n); err != nil {
		return nil, err
	}
	if err = d.Check(buf); err != nil {
		return nil, err
	}

	res := make([]byte, len(buf)*n)
	s.upscale(res, buf, n)
	return res, nil
}

// Shrink box-filters a strip of n scanlines down to one. Only 24-bit
// buffers can be shrunk.
func Shrink(buf []byte, n int, d Depth) ([]byte, error) {
	if _, err := lookup(d); err != nil {
		return nil, err
	}
	if d != Depth24 {
		return nil, fmt.Errorf("shrinking a %s buffer: %w", d, ErrUnsupportedOperation)
	}
	return Downscale24(buf, n)
}

// Downscale24 box-filters a 24-bit strip of n equal scanlines into a single
// scanline n times narrower, rounding with channel.DefaultRounding.
func Downscale24(buf []byte, n int) ([]byte, error) {
	return Downscale24Rounding(buf, n, channel.DefaultRounding)
}

// Downscale24Rounding is Downscale24 with an explicit rounding policy. Every
// output channel byte is the mean of the n*n bytes of its source block.
func Downscale24Rounding(buf []byte, n int, r channel.Rounding) ([]byte, error) {
	if err := checkFactor(n); err != nil {
		return nil, err
	}
	if px := len(buf) / 3; len(buf)%3 != 0 || px%n != 0 || (px/n)%n != 0 {
		return nil, fmt.Errorf("%d bytes is not a strip of %d scanlines with a width divisible by %d: %w",
			len(buf), n, n, ErrMalformedBuffer)
	}

	if len(buf) == 0 {
		return []byte{}, nil
	}

	c0, c1, c2, err := channel.Split3(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBuffer, err)
	}

	res, err := channel.JoinMeans(blockSums(c0, n), blockSums(c1, n), blockSums(c2, n), uint64(n)*uint64(n), r)
	if err != nil {
		return nil, fmt.Errorf("could not join channels: %w", err)
	}
	return res, nil
}

// blockSums adds the n rows of one channel plane together, then adds every
// run of n columns. Sums are 64-bit: n*n*255 outgrows 32 bits from n = 4105.
func blockSums(plane []byte, n int) []uint64 {
	width := len(plane) / n
	rows := make([][]uint64, n)
	for i := range rows {
		rows[i] = vec.Widen[uint64](plane[i*width : (i+1)*width])
	}
	return vec.SumRuns(vec.Sum(rows...), n)
}

func checkFactor(n int) error {
	if n < 1 {
		return fmt.Errorf("%d: %w", n, ErrInvalidFactor)
	}
	return nil
}
