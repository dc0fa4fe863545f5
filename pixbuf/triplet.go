package pixbuf

import "fmt"

// triplet is the 24-bit law: three interleaved channel bytes per sample.
type triplet struct{}

func (triplet) unit() int {
	return 3
}

func (triplet) unpack(buf []byte) []Sample {
	res := make([]Sample, 0, len(buf)/3)
	for i := 0; i+2 < len(buf); i += 3 {
		res = append(res, RGB(buf[i], buf[i+1], buf[i+2]))
	}
	return res
}

func (triplet) pack(samples []Sample, _ bool) ([]byte, error) {
	res := make([]byte, 0, len(samples)*3)
	for i, s := range samples {
		if s > Depth24.MaxSample() {
			return nil, fmt.Errorf("sample %d value %#x exceeds 24 bits: %w", i, uint32(s), ErrMalformedBuffer)
		}
		c0, c1, c2 := s.Channels()
		res = append(res, c0, c1, c2)
	}
	return res, nil
}

func (triplet) upscale(dst, src []byte, n int) {
	o := 0
	for i := 0; i+2 < len(src); i += 3 {
		for range n {
			o += copy(dst[o:], src[i:i+3])
		}
	}
}

// flip reverses the byte sequence, which also turns every RGB triplet into
// BGR, then swaps the outer bytes of each triplet.
func (triplet) flip(dst, src []byte) {
	last := len(src) - 1
	for i := range dst {
		dst[i] = src[last-i]
	}
	for i := 0; i+2 < len(dst); i += 3 {
		dst[i], dst[i+2] = dst[i+2], dst[i]
	}
}
