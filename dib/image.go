// Package dib wraps packed pixbuf buffers as images and moves them between
// their canonical form and the padded pixel array of a bitmap file.
package dib

import (
	"fmt"
	"image"
	"image/color"

	"dibkit/palette"
	"dibkit/pixbuf"
)

// Image is a raster stored as one canonical pixbuf buffer: top-down rows,
// no row padding, RGB channel order at 24 bits. Samples run on from one row
// to the next, so a row may start inside a byte at 1 and 4 bits.
type Image struct {
	Width, Height int
	Depth         pixbuf.Depth
	// Palette maps sample values to colors below 24 bits.
	Palette color.Palette
	Pix     []byte
}

var _ image.Image = (*Image)(nil)

// New returns a zeroed image. Below 24 bits pal defaults to
// palette.Default.
func New(width, height int, d pixbuf.Depth, pal color.Palette) (*Image, error) {
	if d != pixbuf.Depth24 && pal == nil {
		pal = palette.Default(d)
	}
	img := &Image{
		Width:   width,
		Height:  height,
		Depth:   d,
		Palette: pal,
		Pix:     make([]byte, d.BufferLen(width*height)),
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// FromSamples packs one sample per pixel, in row order, into a new image.
// A nil palette defaults like New.
func FromSamples(width, height int, d pixbuf.Depth, pal color.Palette, samples []pixbuf.Sample) (*Image, error) {
	if len(samples) != width*height {
		return nil, fmt.Errorf("%d samples for a %dx%d image: %w", len(samples), width, height, pixbuf.ErrMalformedBuffer)
	}
	pix, err := pixbuf.PackPadded(samples, d)
	if err != nil {
		return nil, err
	}
	if d != pixbuf.Depth24 && pal == nil {
		pal = palette.Default(d)
	}
	img := &Image{Width: width, Height: height, Depth: d, Palette: pal, Pix: pix}
	if err = img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate checks the dimensions, the buffer length and the palette.
func (img *Image) Validate() error {
	if img.Width < 0 || img.Height < 0 {
		return fmt.Errorf("invalid dimensions %dx%d", img.Width, img.Height)
	}
	if err := img.Depth.Check(img.Pix); err != nil {
		return err
	}
	if want := img.Depth.BufferLen(img.Width * img.Height); len(img.Pix) != want {
		return fmt.Errorf("%dx%d image at %s needs %d bytes, has %d: %w",
			img.Width, img.Height, img.Depth, want, len(img.Pix), pixbuf.ErrMalformedBuffer)
	}
	if img.Depth != pixbuf.Depth24 {
		if err := palette.ForDepth(img.Palette, img.Depth); err != nil {
			return err
		}
	}
	return nil
}

// Samples unpacks the image, dropping the padding bits of the last byte.
func (img *Image) Samples() ([]pixbuf.Sample, error) {
	samples, err := pixbuf.Unpack(img.Pix, img.Depth)
	if err != nil {
		return nil, err
	}
	n := img.Width * img.Height
	if len(samples) < n {
		return nil, fmt.Errorf("%d samples for a %dx%d image: %w", len(samples), img.Width, img.Height, pixbuf.ErrMalformedBuffer)
	}
	return samples[:n], nil
}

func (img *Image) ColorModel() color.Model {
	if img.Depth == pixbuf.Depth24 {
		return color.RGBAModel
	}
	return img.Palette
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

func (img *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return color.RGBA{}
	}
	s := img.sample(y*img.Width + x)
	if img.Depth == pixbuf.Depth24 {
		r, g, b := s.Channels()
		return color.RGBA{R: r, G: g, B: b, A: 0xFF}
	}
	if int(s) >= len(img.Palette) {
		return color.Black
	}
	return img.Palette[s]
}

// sample reads sample i straight from the packed buffer.
func (img *Image) sample(i int) pixbuf.Sample {
	switch img.Depth {
	case pixbuf.Depth24:
		p := img.Pix[3*i : 3*i+3]
		return pixbuf.RGB(p[0], p[1], p[2])
	case pixbuf.Depth8:
		return pixbuf.Sample(img.Pix[i])
	}
	bits := int(img.Depth)
	per := 8 / bits
	shift := 8 - bits*(i%per+1)
	return pixbuf.Sample(img.Pix[i/per]>>shift) & img.Depth.MaxSample()
}

// Paletted copies an image below 24 bits into an image.Paletted, the form
// the standard encoders write as an indexed bitmap.
func (img *Image) Paletted() (*image.Paletted, error) {
	if img.Depth == pixbuf.Depth24 {
		return nil, fmt.Errorf("24-bit image has no palette: %w", pixbuf.ErrUnsupportedOperation)
	}
	samples, err := img.Samples()
	if err != nil {
		return nil, err
	}
	res := image.NewPaletted(img.Bounds(), img.Palette)
	for i, s := range samples {
		res.Pix[i] = uint8(s)
	}
	return res, nil
}
