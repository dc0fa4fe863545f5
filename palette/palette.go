// Package palette provides the colour tables of 1, 4 and 8-bit buffers:
// a few built-in tables and RIFF PAL files.
package palette

import (
	"fmt"
	"image/color"
	stdpalette "image/color/palette"
	"os"
	"slices"
	"sort"

	"dibkit/pixbuf"
)

var named = map[string]color.Palette{
	"bw":      gray(2),
	"gray4":   gray(4),
	"gray16":  gray(16),
	"gray256": gray(256),
	"vga16": {
		rgb(0x000000), rgb(0x0000AA), rgb(0x00AA00), rgb(0x00AAAA),
		rgb(0xAA0000), rgb(0xAA00AA), rgb(0xAA5500), rgb(0xAAAAAA),
		rgb(0x555555), rgb(0x5555FF), rgb(0x55FF55), rgb(0x55FFFF),
		rgb(0xFF5555), rgb(0xFF55FF), rgb(0xFFFF55), rgb(0xFFFFFF),
	},
	"websafe": stdpalette.WebSafe,
	"plan9":   stdpalette.Plan9,
}

func rgb(v uint32) color.Color {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}

func gray(n int) color.Palette {
	res := make(color.Palette, n)
	for i := range res {
		res[i] = color.Gray{Y: uint8(i * 255 / (n - 1))}
	}
	return res
}

// Names lists the built-in palettes.
func Names() []string {
	res := make([]string, 0, len(named))
	for name := range named {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// LoadPalette returns a built-in palette by name, or else reads name as a
// RIFF PAL file and concatenates every palette it holds.
func LoadPalette(name string) (color.Palette, error) {
	if pal, ok := named[name]; ok {
		return slices.Clone(pal), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q: %w", name, err)
	}
	defer f.Close()

	pals, err := ReadRIFF(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette file %q: %w", name, err)
	}

	var res color.Palette
	for _, pal := range pals {
		res = append(res, pal...)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("palette file %q holds no colors", name)
	}
	return res, nil
}

// Default returns the palette used for a depth when none is requested.
func Default(d pixbuf.Depth) color.Palette {
	switch d {
	case pixbuf.Depth1:
		return slices.Clone(named["bw"])
	case pixbuf.Depth4:
		return slices.Clone(named["vga16"])
	case pixbuf.Depth8:
		return slices.Clone(named["plan9"])
	}
	return nil
}

// ForDepth checks that every index of pal can be stored at depth d.
func ForDepth(pal color.Palette, d pixbuf.Depth) error {
	if !d.Valid() {
		return fmt.Errorf("%d: %w", int(d), pixbuf.ErrUnsupportedBitDepth)
	}
	if d == pixbuf.Depth24 {
		return fmt.Errorf("24-bit buffers carry no palette: %w", pixbuf.ErrUnsupportedOperation)
	}
	if len(pal) == 0 {
		return fmt.Errorf("empty palette")
	}
	if limit := 1 << int(d); len(pal) > limit {
		return fmt.Errorf("palette of %d colors does not fit in %s (max %d)", len(pal), d, limit)
	}
	return nil
}
