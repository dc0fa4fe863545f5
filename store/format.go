// Package store reads and writes buffer files: a small header, the palette
// and the canonical pixel buffer of a dib.Image, optionally zstd compressed.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"

	"dibkit/dib"
	"dibkit/pixbuf"
)

/*
offset size
0      4    magic "DIBK"
4      1    version
5      1    bit depth
6      1    flags, bit 0 set when the pixels are zstd compressed
7      1    reserved
8      4    width, little endian
12     4    height, little endian
16     4    palette entries
20     4*n  palette, R G B 0
...         pixels
*/

const (
	headerSize = 20
	version    = 1

	flagZstd = 1 << 0

	// maxPixels bounds the buffer a header may ask for.
	maxPixels = 1 << 30
)

var (
	magic = [4]byte{'D', 'I', 'B', 'K'}

	ErrFormat = errors.New("not a buffer file")
)

// Write stores img. With compress set the pixel buffer is zstd compressed.
func Write(w io.Writer, img *dib.Image, compress bool) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}

	var flags byte
	if compress {
		flags |= flagZstd
	}

	head := make([]byte, 0, headerSize+4*len(img.Palette))
	head = append(head, magic[:]...)
	head = append(head, version, byte(img.Depth), flags, 0)
	head = binary.LittleEndian.AppendUint32(head, uint32(img.Width))
	head = binary.LittleEndian.AppendUint32(head, uint32(img.Height))
	head = binary.LittleEndian.AppendUint32(head, uint32(len(img.Palette)))
	for _, col := range img.Palette {
		c := color.RGBAModel.Convert(col).(color.RGBA)
		head = append(head, c.R, c.G, c.B, 0)
	}
	if _, err := w.Write(head); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	if !compress {
		if _, err := w.Write(img.Pix); err != nil {
			return fmt.Errorf("could not write pixels: %w", err)
		}
		return nil
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	if _, err := enc.Write(img.Pix); err != nil {
		enc.Close()
		return fmt.Errorf("could not compress pixels: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("could not flush compressed pixels: %w", err)
	}
	return nil
}

// Read loads an image written by Write.
func Read(r io.Reader) (*dib.Image, error) {
	var head [headerSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}
	if !bytes.Equal(head[:4], magic[:]) {
		return nil, ErrFormat
	}
	if head[4] != version {
		return nil, fmt.Errorf("unsupported buffer file version %d: %w", head[4], ErrFormat)
	}

	d := pixbuf.Depth(head[5])
	flags := head[6]
	width := binary.LittleEndian.Uint32(head[8:])
	height := binary.LittleEndian.Uint32(head[12:])
	palLen := binary.LittleEndian.Uint32(head[16:])
	if !d.Valid() {
		return nil, fmt.Errorf("%d: %w", int(d), pixbuf.ErrUnsupportedBitDepth)
	}
	if uint64(width)*uint64(height) > maxPixels {
		return nil, fmt.Errorf("%dx%d image is too large: %w", width, height, ErrFormat)
	}
	if palLen > 256 {
		return nil, fmt.Errorf("%d palette entries: %w", palLen, ErrFormat)
	}

	var pal color.Palette
	if palLen > 0 {
		entries := make([]byte, 4*palLen)
		if _, err := io.ReadFull(r, entries); err != nil {
			return nil, fmt.Errorf("could not read palette: %w", err)
		}
		pal = make(color.Palette, palLen)
		for i := range pal {
			e := entries[4*i:]
			pal[i] = color.RGBA{R: e[0], G: e[1], B: e[2], A: 0xFF}
		}
	}

	pixReader := r
	if flags&flagZstd != 0 {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("could not create zstd reader: %w", err)
		}
		defer dec.Close()
		pixReader = dec
	}

	img := &dib.Image{
		Width:   int(width),
		Height:  int(height),
		Depth:   d,
		Palette: pal,
		Pix:     make([]byte, d.BufferLen(int(width)*int(height))),
	}
	if _, err := io.ReadFull(pixReader, img.Pix); err != nil {
		return nil, fmt.Errorf("could not read %d pixel bytes: %w", len(img.Pix), err)
	}
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	return img, nil
}
