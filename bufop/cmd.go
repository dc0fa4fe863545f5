// Package bufop holds the commands that transform buffer files in bulk.
package bufop

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"dibkit/channel"
	"dibkit/dib"
	"dibkit/parallel"
	"dibkit/pixbuf"
	"dibkit/store"
)

type OpParams struct {
	Scan      string `help:"Source folder to scan for buffer files" default:"."`
	Dest      string `help:"Destination folder. Relative to scan dir if not absolute." default:"out"`
	Compress  bool   `help:"Compress written buffers with zstd" default:"true" negatable:""`
	Overwrite bool   `help:"Replace existing destination files" default:"false"`
}

func (p *OpParams) validate() error {
	var err error
	p.Scan, p.Dest, err = ScanDirs(p.Scan, p.Dest)
	return err
}

func (p *OpParams) prepare() error {
	if err := os.MkdirAll(p.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", p.Dest, err)
	}
	return nil
}

// transform loads every buffer file, applies op and saves the result under
// the same name in Dest.
func (p *OpParams) transform(worker parallel.WorkerFunc, wait parallel.WaitFunc, op func(*slog.Logger, *dib.Image) (*dib.Image, error)) error {
	if err := p.prepare(); err != nil {
		wait(true)
		return err
	}

	return Batch(p.Scan, store.Ext, worker, wait, func(logger *slog.Logger, path string) error {
		img, err := store.Load(path)
		if err != nil {
			return err
		}
		out, err := op(logger, img)
		if err != nil {
			return err
		}
		return store.Save(store.DestName(p.Dest, path, store.Ext), out, p.Compress, p.Overwrite)
	})
}

type FlipCmd struct {
	OpParams
}

func (c *FlipCmd) Validate(kctx *kong.Context) error {
	return c.validate()
}

func (c *FlipCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc, engine pixbuf.Engine) error {
	return c.transform(worker, wait, func(logger *slog.Logger, img *dib.Image) (*dib.Image, error) {
		logger.Info("flipping", "depth", img.Depth, "width", img.Width, "height", img.Height)
		return dib.Rotate180(engine, img)
	})
}

type ResizeCmd struct {
	OpParams
	Factor   int    `help:"Integer resize factor" required:""`
	Shrink   bool   `help:"Shrink by box filter instead of enlarging (24-bit only)" default:"false"`
	Rounding string `help:"Rounding of shrunk channel means" enum:"half-up,half-even,truncate" default:"half-up"`

	rounding channel.Rounding
}

func (c *ResizeCmd) Validate(kctx *kong.Context) error {
	if c.Factor < 1 {
		return fmt.Errorf("invalid resize factor: %d", c.Factor)
	}
	var err error
	if c.rounding, err = channel.ParseRounding(c.Rounding); err != nil {
		return err
	}
	return c.validate()
}

func (c *ResizeCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc, engine pixbuf.Engine) error {
	engine.Rounding = c.rounding
	mode := pixbuf.ModeGrow
	if c.Shrink {
		mode = pixbuf.ModeShrink
	}

	return c.transform(worker, wait, func(logger *slog.Logger, img *dib.Image) (*dib.Image, error) {
		logger.Info("resizing", "mode", mode, "factor", c.Factor, "depth", img.Depth)
		if mode == pixbuf.ModeShrink {
			return dib.Shrink(engine, img, c.Factor)
		}
		return dib.Enlarge(engine, img, c.Factor)
	})
}

type PixelArrayCmd struct {
	OpParams
}

func (c *PixelArrayCmd) Validate(kctx *kong.Context) error {
	return c.validate()
}

// Run writes the padded on-disk pixel array of every buffer file as a raw
// ".pxa" file.
func (c *PixelArrayCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := c.prepare(); err != nil {
		wait(true)
		return err
	}

	return Batch(c.Scan, store.Ext, worker, wait, func(logger *slog.Logger, path string) error {
		img, err := store.Load(path)
		if err != nil {
			return err
		}
		data, err := dib.PixelArray(img)
		if err != nil {
			return err
		}

		dest := store.DestName(c.Dest, path, ".pxa")
		logger.Info("writing pixel array", "dest", dest, "bytes", len(data), "stride", dib.Stride(img.Width, img.Depth))
		return store.WriteFile(dest, c.Overwrite, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
	})
}
