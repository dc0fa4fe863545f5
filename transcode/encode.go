package transcode

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"dibkit/dib"
	"dibkit/pixbuf"
	"dibkit/store"
)

// renderable returns the image handed to the encoders: an image.Paletted
// below 24 bits, so indexed formats keep the palette, else img itself.
func renderable(img *dib.Image) (image.Image, error) {
	if img.Depth == pixbuf.Depth24 {
		return img, nil
	}
	return img.Paletted()
}

// save encodes img as outType into dest. Unless overwrite is set, an
// existing dest is an error.
func save(img image.Image, outType, dest string, overwrite bool) error {
	var encode func(io.Writer) error
	switch outType {
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		encode = func(w io.Writer) error { return enc.Encode(w, img) }
	case "bmp":
		encode = func(w io.Writer) error { return bmp.Encode(w, img) }
	case "tiff":
		encode = func(w io.Writer) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outType)
	}

	if err := store.WriteFile(dest, overwrite, encode); err != nil {
		return fmt.Errorf("could not encode %s destination: %w", strings.ToUpper(outType), err)
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
