package pixbuf

// Flip converts a buffer between canonical order and the on-disk order of
// the bitmap format. The byte sequence is reversed, then each byte has its
// bits reversed at 1 bit or its nibbles swapped at 4 bits, and each triplet
// has its outer bytes swapped at 24 bits. Flip is its own inverse.
func Flip(buf []byte, d Depth) ([]byte, error) {
	s, err := lookup(d)
	if err != nil {
		return nil, err
	}
	if err = d.Check(buf); err != nil {
		return nil, err
	}

	res := make([]byte, len(buf))
	s.flip(res, buf)
	return res, nil
}
