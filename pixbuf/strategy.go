package pixbuf

import "fmt"

// strategy implements the packing law of one depth. Every method works on
// whole units (one byte, or one triplet at 24 bits), so callers may hand it
// any unit-aligned sub-slice of a buffer.
type strategy interface {
	// unit is the number of bytes that always hold a whole number of samples.
	unit() int
	unpack(buf []byte) []Sample
	pack(samples []Sample, pad bool) ([]byte, error)
	// upscale writes n copies of every sample of src into dst, which holds
	// n*len(src) zeroed bytes.
	upscale(dst, src []byte, n int)
	// flip writes the on-disk form of src into dst, which has the same length.
	flip(dst, src []byte)
}

var strategies = map[Depth]strategy{
	Depth1:  newPacked(1),
	Depth4:  newPacked(4),
	Depth8:  newPacked(8),
	Depth24: triplet{},
}

func lookup(d Depth) (strategy, error) {
	s, ok := strategies[d]
	if !ok {
		return nil, fmt.Errorf("%d: %w", int(d), ErrUnsupportedBitDepth)
	}
	return s, nil
}
