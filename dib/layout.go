package dib

import (
	"fmt"
	"image/color"
	"slices"

	"dibkit/channel"
	"dibkit/pixbuf"
)

// Stride is the length of one pixel array row in a bitmap file: the packed
// row rounded up to a multiple of 4 bytes.
func Stride(width int, d pixbuf.Depth) int {
	return (width*int(d) + 31) / 32 * 4
}

// reverseSamples reverses the first count samples of a canonical buffer
// through pixbuf.Flip. Padding bits that the flip moves to the front are
// dropped and the result is padded at the end again.
func reverseSamples(e pixbuf.Engine, pix []byte, count int, d pixbuf.Depth) ([]byte, error) {
	flipped, err := e.Flip(pix, d)
	if err != nil {
		return nil, err
	}
	pad := d.Pixels(len(pix)) - count
	if pad == 0 {
		return flipped, nil
	}
	if pad < 0 {
		return nil, fmt.Errorf("%d bytes hold fewer than %d samples: %w", len(pix), count, pixbuf.ErrMalformedBuffer)
	}

	samples, err := pixbuf.Unpack(flipped, d)
	if err != nil {
		return nil, err
	}
	return pixbuf.PackPadded(samples[pad:], d)
}

// Rotate180 turns the image upside down. The flip reverses the sample
// sequence, which for an unpadded raster reverses the rows and every row.
func Rotate180(e pixbuf.Engine, img *Image) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	pix, err := reverseSamples(e, img.Pix, img.Width*img.Height, img.Depth)
	if err != nil {
		return nil, fmt.Errorf("could not rotate image: %w", err)
	}
	return &Image{
		Width:   img.Width,
		Height:  img.Height,
		Depth:   img.Depth,
		Palette: slices.Clone(img.Palette),
		Pix:     pix,
	}, nil
}

// PixelArray lays the image out in bitmap file order: rows bottom-up, each
// row left to right and padded to Stride bytes, 24-bit pixels stored B, G, R.
func PixelArray(img *Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	samples, err := img.Samples()
	if err != nil {
		return nil, err
	}

	stride := Stride(img.Width, img.Depth)
	res := make([]byte, 0, stride*img.Height)
	for y := img.Height - 1; y >= 0; y-- {
		row, err := pixbuf.PackPadded(samples[y*img.Width:(y+1)*img.Width], img.Depth)
		if err != nil {
			return nil, err
		}
		if img.Depth == pixbuf.Depth24 {
			if row, err = swapRB(row); err != nil {
				return nil, err
			}
		}
		res = append(res, row...)
		res = append(res, make([]byte, stride-len(row))...)
	}
	return res, nil
}

// FromPixelArray reverses PixelArray. Bytes past the last row are ignored,
// and a nil palette defaults like New.
func FromPixelArray(data []byte, width, height int, d pixbuf.Depth, pal color.Palette) (*Image, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%d: %w", int(d), pixbuf.ErrUnsupportedBitDepth)
	}
	stride := Stride(width, d)
	if width < 0 || height < 0 || len(data) < stride*height {
		return nil, fmt.Errorf("%d bytes cannot hold %d rows of %d bytes: %w", len(data), height, stride, pixbuf.ErrMalformedBuffer)
	}

	rowLen := d.BufferLen(width)
	samples := make([]pixbuf.Sample, width*height)
	for i := range height {
		row := data[i*stride : i*stride+rowLen]
		if d == pixbuf.Depth24 {
			var err error
			if row, err = swapRB(row); err != nil {
				return nil, err
			}
		}
		unpacked, err := pixbuf.Unpack(row, d)
		if err != nil {
			return nil, err
		}
		y := height - 1 - i
		copy(samples[y*width:(y+1)*width], unpacked[:width])
	}

	return FromSamples(width, height, d, pal, samples)
}

// swapRB exchanges the first and last byte of every triplet.
func swapRB(row []byte) ([]byte, error) {
	c0, c1, c2, err := channel.Split3(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pixbuf.ErrMalformedBuffer, err)
	}
	return channel.Join3(c2, c1, c0)
}
