package bufop

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"

	"dibkit/channel"
	"dibkit/dib"
	"dibkit/parallel"
	"dibkit/pixbuf"
	"dibkit/store"
)

func writeBuffer(t *testing.T, dir, name string, img *dib.Image) {
	t.Helper()
	if err := store.Save(filepath.Join(dir, name+store.Ext), img, true, false); err != nil {
		t.Fatal(err)
	}
}

func rgbStrip(t *testing.T) *dib.Image {
	t.Helper()
	img, err := dib.FromSamples(2, 2, pixbuf.Depth24, nil, []pixbuf.Sample{
		pixbuf.RGB(10, 20, 30), pixbuf.RGB(40, 50, 60),
		pixbuf.RGB(70, 80, 90), pixbuf.RGB(100, 110, 120),
	})
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.dibk", "b.DIBK", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.dibk"), 0o755); err != nil {
		t.Fatal(err)
	}

	var seen atomic.Int32
	pool := parallel.Start(2)
	err := Batch(dir, store.Ext, pool.Do, pool.Wait, func(_ *slog.Logger, path string) error {
		seen.Add(1)
		if filepath.Base(path) == "b.DIBK" {
			return errors.New("boom")
		}
		return nil
	})
	if err == nil {
		t.Error("Batch hid a failed file")
	}
	if got := seen.Load(); got != 2 {
		t.Errorf("processed %d files, want 2", got)
	}

	pool = parallel.Start(1)
	if err := Batch(filepath.Join(dir, "missing"), "", pool.Do, pool.Wait, nil); err == nil {
		t.Error("Batch on a missing folder succeeded")
	}
}

func TestScanDirs(t *testing.T) {
	dir := t.TempDir()
	scan, dest, err := ScanDirs(dir, "out")
	if err != nil {
		t.Fatal(err)
	}
	if scan != dir || dest != filepath.Join(dir, "out") {
		t.Errorf("ScanDirs = %q, %q", scan, dest)
	}

	abs := filepath.Join(t.TempDir(), "elsewhere")
	if _, dest, _ = ScanDirs(dir, abs); dest != abs {
		t.Errorf("absolute dest rewritten to %q", dest)
	}

	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ScanDirs(file, "out"); err == nil {
		t.Error("ScanDirs accepted a regular file")
	}
}

func TestFlipCmd(t *testing.T) {
	dir := t.TempDir()
	writeBuffer(t, dir, "strip", rgbStrip(t))

	cmd := &FlipCmd{OpParams{Scan: dir, Dest: "out", Compress: true}}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	pool := parallel.Start(2)
	if err := cmd.Run(pool.Do, pool.Wait, pixbuf.Engine{Workers: 2, MinChunk: 3}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(filepath.Join(dir, "out", "strip"+store.Ext))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{100, 110, 120, 70, 80, 90, 40, 50, 60, 10, 20, 30}
	if !bytes.Equal(got.Pix, want) {
		t.Errorf("flipped pixels = %v, want %v", got.Pix, want)
	}

	pool = parallel.Start(1)
	if err := cmd.Run(pool.Do, pool.Wait, pixbuf.Engine{}); err == nil {
		t.Error("second flip overwrote its destination")
	}
}

func TestResizeCmd(t *testing.T) {
	tests := []struct {
		name   string
		shrink bool
		factor int
		wantW  int
		want   []pixbuf.Sample
	}{
		{
			name:   "enlarge",
			factor: 2,
			wantW:  4,
			want: []pixbuf.Sample{
				pixbuf.RGB(10, 20, 30), pixbuf.RGB(10, 20, 30), pixbuf.RGB(40, 50, 60), pixbuf.RGB(40, 50, 60),
				pixbuf.RGB(10, 20, 30), pixbuf.RGB(10, 20, 30), pixbuf.RGB(40, 50, 60), pixbuf.RGB(40, 50, 60),
				pixbuf.RGB(70, 80, 90), pixbuf.RGB(70, 80, 90), pixbuf.RGB(100, 110, 120), pixbuf.RGB(100, 110, 120),
				pixbuf.RGB(70, 80, 90), pixbuf.RGB(70, 80, 90), pixbuf.RGB(100, 110, 120), pixbuf.RGB(100, 110, 120),
			},
		},
		{
			name:   "shrink",
			shrink: true,
			factor: 2,
			wantW:  1,
			want:   []pixbuf.Sample{pixbuf.RGB(55, 65, 75)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeBuffer(t, dir, "strip", rgbStrip(t))

			cmd := &ResizeCmd{
				OpParams: OpParams{Scan: dir, Dest: "out"},
				Factor:   tt.factor,
				Shrink:   tt.shrink,
				Rounding: "half-up",
			}
			if err := cmd.Validate(nil); err != nil {
				t.Fatal(err)
			}
			pool := parallel.Start(1)
			if err := cmd.Run(pool.Do, pool.Wait, pixbuf.Engine{}); err != nil {
				t.Fatal(err)
			}

			got, err := store.Load(filepath.Join(dir, "out", "strip"+store.Ext))
			if err != nil {
				t.Fatal(err)
			}
			if got.Width != tt.wantW {
				t.Errorf("width = %d, want %d", got.Width, tt.wantW)
			}
			samples, err := got.Samples()
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(samples, tt.want) {
				t.Errorf("samples = %v, want %v", samples, tt.want)
			}
		})
	}
}

func TestResizeCmdValidate(t *testing.T) {
	cmd := &ResizeCmd{OpParams: OpParams{Scan: t.TempDir(), Dest: "out"}, Factor: 0, Rounding: "half-up"}
	if err := cmd.Validate(nil); err == nil {
		t.Error("factor 0 accepted")
	}
	cmd.Factor, cmd.Rounding = 2, "banker"
	if err := cmd.Validate(nil); err == nil {
		t.Error("unknown rounding accepted")
	}
	cmd.Rounding = "half-even"
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if cmd.rounding != channel.RoundHalfEven {
		t.Errorf("rounding = %s, want %s", cmd.rounding, channel.RoundHalfEven)
	}
}

func TestPixelArrayCmd(t *testing.T) {
	dir := t.TempDir()
	img, err := dib.FromSamples(3, 2, pixbuf.Depth4, nil, []pixbuf.Sample{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	writeBuffer(t, dir, "nibbles", img)

	cmd := &PixelArrayCmd{OpParams{Scan: dir, Dest: "out"}}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	pool := parallel.Start(1)
	if err := cmd.Run(pool.Do, pool.Wait); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "nibbles.pxa"))
	if err != nil {
		t.Fatal(err)
	}
	// bottom row first, each padded to 4 bytes
	want := []byte{0x45, 0x60, 0, 0, 0x12, 0x30, 0, 0}
	if !bytes.Equal(data, want) {
		t.Errorf("pixel array = %x, want %x", data, want)
	}
}
