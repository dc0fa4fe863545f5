package pixbuf

import "fmt"

// Mode selects the direction of Resize.
type Mode int

const (
	ModeGrow Mode = iota
	ModeShrink
)

func (m Mode) String() string {
	switch m {
	case ModeGrow:
		return "grow"
	case ModeShrink:
		return "shrink"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Resize enlarges buf with Upscale, or box-filters it with Downscale24 when
// m is ModeShrink, in which case buf is one strip of n scanlines. The depth
// is validated before anything else.
func Resize(buf []byte, n int, d Depth, m Mode) ([]byte, error) {
	if _, err := lookup(d); err != nil {
		return nil, err
	}
	switch m {
	case ModeGrow:
		return Upscale(buf, n, d)
	case ModeShrink:
		return Shrink(buf, n, d)
	}
	return nil, fmt.Errorf("resize mode %s: %w", m, ErrUnsupportedOperation)
}
