package pixbuf

import "fmt"

// Unpack expands a packed buffer into one Sample per pixel. A byte yields
// eight samples at 1 bit and two at 4 bits, most significant first; every
// three bytes yield one sample at 24 bits.
func Unpack(buf []byte, d Depth) ([]Sample, error) {
	s, err := lookup(d)
	if err != nil {
		return nil, err
	}
	if err = d.Check(buf); err != nil {
		return nil, err
	}
	return s.unpack(buf), nil
}

// Pack is the inverse of Unpack. At 1 and 4 bits the sample count must fill
// whole bytes; a partial trailing group is ErrMalformedBuffer.
func Pack(samples []Sample, d Depth) ([]byte, error) {
	return pack(samples, d, false)
}

// PackPadded is Pack with the last byte zero-filled when the samples do not
// fill it.
func PackPadded(samples []Sample, d Depth) ([]byte, error) {
	return pack(samples, d, true)
}

func pack(samples []Sample, d Depth, pad bool) ([]byte, error) {
	s, err := lookup(d)
	if err != nil {
		return nil, err
	}
	buf, err := s.pack(samples, pad)
	if err != nil {
		return nil, fmt.Errorf("could not pack %d samples at %s: %w", len(samples), d, err)
	}
	return buf, nil
}
