package pixbuf

import "fmt"

// packed covers the depths whose samples fit inside a byte. Samples are
// stored most significant field first.
//
// The on-disk transform reverses the byte order and then the order of the
// fields inside every byte: bit reversal at 1 bit, nibble swap at 4 bits,
// nothing at 8 bits.
type packed struct {
	bits    uint
	perByte int
	mask    byte
	reverse *[256]byte
}

func newPacked(bits uint) packed {
	p := packed{
		bits:    bits,
		perByte: 8 / int(bits),
		mask:    byte(0xFF >> (8 - bits)),
		reverse: new([256]byte),
	}
	for b := range 256 {
		var r byte
		for i := range p.perByte {
			field := byte(b) >> p.shift(i) & p.mask
			r |= field << p.shift(p.perByte-1-i)
		}
		p.reverse[b] = r
	}
	return p
}

// shift returns the bit offset of field i, counting from the most
// significant field.
func (p packed) shift(i int) uint {
	return 8 - p.bits*uint(i+1)
}

func (p packed) unit() int {
	return 1
}

func (p packed) unpack(buf []byte) []Sample {
	res := make([]Sample, 0, len(buf)*p.perByte)
	for _, b := range buf {
		for i := range p.perByte {
			res = append(res, Sample(b>>p.shift(i)&p.mask))
		}
	}
	return res
}

func (p packed) pack(samples []Sample, pad bool) ([]byte, error) {
	if rem := len(samples) % p.perByte; rem != 0 && !pad {
		return nil, fmt.Errorf("%d samples leave a partial group of %d at %d bits: %w",
			len(samples), rem, p.bits, ErrMalformedBuffer)
	}

	res := make([]byte, (len(samples)+p.perByte-1)/p.perByte)
	for i, s := range samples {
		if s > Sample(p.mask) {
			return nil, fmt.Errorf("sample %d value %d exceeds %d bits: %w", i, s, p.bits, ErrMalformedBuffer)
		}
		res[i/p.perByte] |= byte(s) << p.shift(i%p.perByte)
	}
	return res, nil
}

func (p packed) upscale(dst, src []byte, n int) {
	o := 0
	for _, b := range src {
		for i := range p.perByte {
			field := b >> p.shift(i) & p.mask
			for range n {
				dst[o/p.perByte] |= field << p.shift(o%p.perByte)
				o++
			}
		}
	}
}

func (p packed) flip(dst, src []byte) {
	last := len(src) - 1
	for i := range dst {
		dst[i] = p.reverse[src[last-i]]
	}
}
