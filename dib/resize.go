package dib

import (
	"fmt"
	"slices"

	"dibkit/pixbuf"
)

// Enlarge scales the image up n times on both axes by pixel replication.
// Rows are widened with pixbuf upscaling, then each is repeated n times.
func Enlarge(e pixbuf.Engine, img *Image, n int) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	wide, err := e.Upscale(img.Pix, n, img.Depth)
	if err != nil {
		return nil, fmt.Errorf("could not enlarge image: %w", err)
	}

	width := img.Width * n
	if img.Depth == pixbuf.Depth24 {
		return &Image{
			Width:  width,
			Height: img.Height * n,
			Depth:  img.Depth,
			Pix:    repeatRows(wide, 3*width, img.Height, n),
		}, nil
	}

	// rows of sub-byte samples need not start on a byte, so repeat samples
	samples, err := pixbuf.Unpack(wide, img.Depth)
	if err != nil {
		return nil, err
	}
	return FromSamples(width, img.Height*n, img.Depth, slices.Clone(img.Palette),
		repeatRows(samples[:width*img.Height], width, img.Height, n))
}

func repeatRows[T any](v []T, rowLen, rows, n int) []T {
	res := make([]T, 0, rowLen*rows*n)
	for y := range rows {
		row := v[y*rowLen : (y+1)*rowLen]
		for range n {
			res = append(res, row...)
		}
	}
	return res
}

// Shrink scales a 24-bit image down n times on both axes, each output pixel
// the mean of an n by n block. Both dimensions must be multiples of n.
func Shrink(e pixbuf.Engine, img *Image, n int) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if img.Depth != pixbuf.Depth24 {
		return nil, fmt.Errorf("shrinking a %s image: %w", img.Depth, pixbuf.ErrUnsupportedOperation)
	}
	if n < 1 {
		return nil, fmt.Errorf("%d: %w", n, pixbuf.ErrInvalidFactor)
	}
	if img.Width%n != 0 || img.Height%n != 0 {
		return nil, fmt.Errorf("%dx%d image does not divide by %d: %w", img.Width, img.Height, n, pixbuf.ErrMalformedBuffer)
	}
	if img.Width == 0 || img.Height == 0 {
		return &Image{Width: img.Width / n, Height: img.Height / n, Depth: img.Depth, Pix: []byte{}}, nil
	}

	pix, err := e.Shrink(img.Pix, img.Width, n, img.Depth)
	if err != nil {
		return nil, fmt.Errorf("could not shrink image: %w", err)
	}
	return &Image{
		Width:  img.Width / n,
		Height: img.Height / n,
		Depth:  img.Depth,
		Pix:    pix,
	}, nil
}
