package pixbuf

import (
	"fmt"

	"dibkit/channel"
	"dibkit/parallel"
)

// Engine runs the buffer transforms over disjoint byte ranges on several
// goroutines. Its results are identical to the package level functions.
// The zero value runs everything on the calling goroutine.
type Engine struct {
	Workers  int
	Rounding channel.Rounding
	// MinChunk is the smallest input range worth handing to a worker.
	MinChunk int
}

const defaultMinChunk = 64 << 10

func (e Engine) chunks(total, unit int) []parallel.Range {
	minChunk := e.MinChunk
	if minChunk < 1 {
		minChunk = defaultMinChunk
	}
	parts := min(e.Workers, max(1, total/minChunk))
	return parallel.Chunks(total, parts, unit)
}

// Flip is the concurrent form of Flip. Output range [lo, hi) only reads
// input range [len-hi, len-lo).
func (e Engine) Flip(buf []byte, d Depth) ([]byte, error) {
	if e.Workers <= 1 {
		return Flip(buf, d)
	}
	s, err := lookup(d)
	if err != nil {
		return nil, err
	}
	if err = d.Check(buf); err != nil {
		return nil, err
	}

	res := make([]byte, len(buf))
	n := len(buf)
	parallel.ForEach(e.Workers, e.chunks(n, s.unit()), func(r parallel.Range) {
		s.flip(res[r.Lo:r.Hi], buf[n-r.Hi:n-r.Lo])
	})
	return res, nil
}

// Upscale is the concurrent form of Upscale. Input range [lo, hi) expands
// into output range [n*lo, n*hi).
func (e Engine) Upscale(buf []byte, n int, d Depth) ([]byte, error) {
	if e.Workers <= 1 {
		return Upscale(buf, n, d)
	}
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
	parallel.ForEach(e.Workers, e.chunks(len(buf), s.unit()), func(r parallel.Range) {
		s.upscale(res[r.Lo*n:r.Hi*n], buf[r.Lo:r.Hi], n)
	})
	return res, nil
}

// Shrink box-filters a 24-bit raster of the given pixel width, one strip of
// n scanlines at a time. Strips are independent and run concurrently.
func (e Engine) Shrink(buf []byte, width, n int, d Depth) ([]byte, error) {
	if _, err := lookup(d); err != nil {
		return nil, err
	}
	if d != Depth24 {
		return nil, fmt.Errorf("shrinking a %s buffer: %w", d, ErrUnsupportedOperation)
	}
	if err := checkFactor(n); err != nil {
		return nil, err
	}
	strip := width * 3 * n
	if width <= 0 || width%n != 0 || len(buf)%strip != 0 {
		return nil, fmt.Errorf("%d bytes is not a raster %d pixels wide made of %d-scanline strips: %w",
			len(buf), width, n, ErrMalformedBuffer)
	}

	strips := len(buf) / strip
	outStrip := strip / (n * n)
	res := make([]byte, strips*outStrip)
	errs := make([]error, strips)
	parallel.ForEach(max(1, e.Workers), parallel.Chunks(strips, max(1, e.Workers), 1), func(r parallel.Range) {
		for i := r.Lo; i < r.Hi; i++ {
			out, err := Downscale24Rounding(buf[i*strip:(i+1)*strip], n, e.Rounding)
			if err != nil {
				errs[i] = err
				continue
			}
			copy(res[i*outStrip:], out)
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Resize dispatches like Resize. Growing runs concurrently. ModeShrink runs
// on the calling goroutine and, like Resize, takes buf as one strip of n
// scanlines; a whole raster is shrunk with Shrink, which knows its width.
func (e Engine) Resize(buf []byte, n int, d Depth, m Mode) ([]byte, error) {
	if _, err := lookup(d); err != nil {
		return nil, err
	}
	if m == ModeGrow {
		return e.Upscale(buf, n, d)
	}
	return Resize(buf, n, d, m)
}
