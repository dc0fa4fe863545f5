// Package transcode moves pictures in and out of buffer files: decoding
// common image formats into packed buffers, and rendering buffers back.
package transcode

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"

	"dibkit/bufop"
	"dibkit/palette"
	"dibkit/parallel"
	"dibkit/pixbuf"
	"dibkit/store"
)

type ConvertCmd struct {
	Scan      string        `help:"Source folder to scan for pictures" default:"."`
	Dest      string        `help:"Destination folder for buffer files. Relative to scan dir if not absolute." default:"buffers"`
	Depth     int           `help:"Bit depth of the buffers" enum:"1,4,8,24" default:"24"`
	Palette   string        `help:"Palette name (bw, gray4, gray16, gray256, vga16, websafe, plan9) or PAL file in RIFF format. Defaults to bw, vga16 or plan9 by depth." group:"palette"`
	Dither    bool          `help:"Apply dithering" default:"false" group:"palette"`
	Compress  bool          `help:"Compress written buffers with zstd" default:"true" negatable:""`
	Overwrite bool          `help:"Replace existing destination files" default:"false"`
	Colors    color.Palette `kong:"-"`
}

func (c *ConvertCmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Scan, c.Dest, err = bufop.ScanDirs(c.Scan, c.Dest); err != nil {
		return err
	}

	d := pixbuf.Depth(c.Depth)
	if d == pixbuf.Depth24 {
		if c.Palette != "" {
			return fmt.Errorf("24-bit buffers take no palette")
		}
		return nil
	}

	c.Colors = palette.Default(d)
	if c.Palette != "" {
		if c.Colors, err = palette.LoadPalette(c.Palette); err != nil {
			return err
		}
	}
	return palette.ForDepth(c.Colors, d)
}

func (c *ConvertCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		wait(true)
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	d := pixbuf.Depth(c.Depth)
	return bufop.Batch(c.Scan, "", worker, wait, func(logger *slog.Logger, path string) error {
		imgFile, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("could not open image: %w", err)
		}
		defer imgFile.Close()

		img, imgType, err := image.Decode(imgFile)
		if err != nil {
			return fmt.Errorf("could not decode image: %w", err)
		}

		buf, err := quantize(logger.With("format", imgType), img, d, c.Colors, c.Dither)
		if err != nil {
			return fmt.Errorf("could not convert image: %w", err)
		}
		return store.Save(store.DestName(c.Dest, path, store.Ext), buf, c.Compress, c.Overwrite)
	})
}

type RenderCmd struct {
	Scan      string `help:"Source folder to scan for buffer files" default:"."`
	Dest      string `help:"Destination folder for pictures. Relative to scan dir if not absolute." default:"rendered"`
	Format    string `help:"Output format" enum:"bmp,png,tiff" default:"bmp"`
	Overwrite bool   `help:"Replace existing destination files" default:"false"`
}

func (c *RenderCmd) Validate(kctx *kong.Context) error {
	var err error
	c.Scan, c.Dest, err = bufop.ScanDirs(c.Scan, c.Dest)
	return err
}

func (c *RenderCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		wait(true)
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	return bufop.Batch(c.Scan, store.Ext, worker, wait, func(logger *slog.Logger, path string) error {
		buf, err := store.Load(path)
		if err != nil {
			return err
		}
		img, err := renderable(buf)
		if err != nil {
			return err
		}

		dest := store.DestName(c.Dest, path, "."+c.Format)
		logger.Info("rendering", "dest", dest, "depth", buf.Depth)
		return save(img, c.Format, dest, c.Overwrite)
	})
}
