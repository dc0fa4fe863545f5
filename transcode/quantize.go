package transcode

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"

	"dibkit/dib"
	"dibkit/pixbuf"
)

// quantize converts img to a canonical buffer at depth d. Below 24 bits
// every pixel is mapped to its nearest pal entry, optionally with
// Floyd-Steinberg error diffusion. Alpha is dropped.
func quantize(logger *slog.Logger, img image.Image, d pixbuf.Depth, pal color.Palette, dither bool) (*dib.Image, error) {
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	samples := make([]pixbuf.Sample, 0, dr.Dx()*dr.Dy())

	if d == pixbuf.Depth24 {
		logger.Info("converting to RGB", "width", dr.Dx(), "height", dr.Dy())
		dest := image.NewRGBA(dr)
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
		for i := 0; i < len(dest.Pix); i += 4 {
			samples = append(samples, pixbuf.RGB(dest.Pix[i], dest.Pix[i+1], dest.Pix[i+2]))
		}
		return dib.FromSamples(dr.Dx(), dr.Dy(), d, nil, samples)
	}

	logger.Info("applying palette", "colors", len(pal), "dither", dither)
	dest := image.NewPaletted(dr, pal)
	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}
	for _, idx := range dest.Pix {
		samples = append(samples, pixbuf.Sample(idx))
	}
	return dib.FromSamples(dr.Dx(), dr.Dy(), d, pal, samples)
}
