// Package pixbuf transcodes and resamples packed device-independent bitmap
// pixel buffers at 1, 4, 8 and 24 bits per pixel.
//
// Buffers are flat, row-major and unpadded. Every function returns a new
// buffer and leaves its input untouched.
package pixbuf

import (
	"fmt"
	"strconv"
)

// Depth is the number of bits used to encode one pixel sample.
type Depth int

// The supported depths. Samples below 24 bits index a palette; 24-bit
// samples hold the color itself.
const (
	Depth1  Depth = 1
	Depth4  Depth = 4
	Depth8  Depth = 8
	Depth24 Depth = 24
)

// Depths lists every supported depth in ascending order.
var Depths = []Depth{Depth1, Depth4, Depth8, Depth24}

// Valid reports whether d has an entry in the strategy table.
func (d Depth) Valid() bool {
	_, ok := strategies[d]
	return ok
}

func (d Depth) String() string {
	return strconv.Itoa(int(d)) + "bpp"
}

// Channels is 3 for 24-bit buffers and 1 otherwise.
func (d Depth) Channels() int {
	if d == Depth24 {
		return 3
	}
	return 1
}

// SamplesPerByte is the number of samples packed into one byte, or 0 when a
// sample spans several bytes.
func (d Depth) SamplesPerByte() int {
	switch d {
	case Depth1, Depth4, Depth8:
		return 8 / int(d)
	}
	return 0
}

// MaxSample is the largest sample value representable at this depth.
func (d Depth) MaxSample() Sample {
	return Sample(1)<<uint(d) - 1
}

// BufferLen returns the packed length of a buffer holding pixels samples.
func (d Depth) BufferLen(pixels int) int {
	switch d {
	case Depth1, Depth4:
		return (pixels*int(d) + 7) / 8
	case Depth8:
		return pixels
	case Depth24:
		return pixels * 3
	}
	return 0
}

// Pixels returns the number of samples stored in a packed buffer of bufLen
// bytes.
func (d Depth) Pixels(bufLen int) int {
	switch d {
	case Depth1, Depth4, Depth8:
		return bufLen * d.SamplesPerByte()
	case Depth24:
		return bufLen / 3
	}
	return 0
}

// Check reports whether buf is a well-formed packed buffer for this depth.
func (d Depth) Check(buf []byte) error {
	if !d.Valid() {
		return fmt.Errorf("%d: %w", int(d), ErrUnsupportedBitDepth)
	}
	if d == Depth24 && len(buf)%3 != 0 {
		return fmt.Errorf("%d bytes is not a whole number of 24-bit samples: %w", len(buf), ErrMalformedBuffer)
	}
	return nil
}

// ParseDepth accepts "1", "4", "8" or "24", optionally suffixed with "bpp".
func ParseDepth(s string) (Depth, error) {
	if len(s) > 3 && s[len(s)-3:] == "bpp" {
		s = s[:len(s)-3]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bit depth %q: %w", s, err)
	}
	d := Depth(n)
	if !d.Valid() {
		return 0, fmt.Errorf("%d: %w", n, ErrUnsupportedBitDepth)
	}
	return d, nil
}
