package pixbuf

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func randomBuffer(rng *rand.Rand, d Depth, pixels int) []byte {
	buf := make([]byte, d.BufferLen(pixels))
	for i := range buf {
		buf[i] = byte(rng.UintN(256))
	}
	return buf
}

func TestDepthSizes(t *testing.T) {
	tests := []struct {
		d          Depth
		pixels     int
		wantLen    int
		wantPixels int
	}{
		{Depth1, 10, 2, 16},
		{Depth1, 16, 2, 16},
		{Depth4, 5, 3, 6},
		{Depth4, 6, 3, 6},
		{Depth8, 7, 7, 7},
		{Depth24, 7, 21, 7},
	}
	for _, tt := range tests {
		got := tt.d.BufferLen(tt.pixels)
		if got != tt.wantLen {
			t.Errorf("%s.BufferLen(%d) = %d, want %d", tt.d, tt.pixels, got, tt.wantLen)
		}
		if got := tt.d.Pixels(got); got != tt.wantPixels {
			t.Errorf("%s.Pixels(%d) = %d, want %d", tt.d, tt.wantLen, got, tt.wantPixels)
		}
	}
}

func TestParseDepth(t *testing.T) {
	for _, s := range []string{"1", "4", "8", "24", "24bpp"} {
		d, err := ParseDepth(s)
		if err != nil {
			t.Errorf("ParseDepth(%q): %v", s, err)
			continue
		}
		if !d.Valid() {
			t.Errorf("ParseDepth(%q) = %d, not a valid depth", s, d)
		}
	}
	if _, err := ParseDepth("7"); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("ParseDepth(7) error = %v, want %v", err, ErrUnsupportedBitDepth)
	}
	if _, err := ParseDepth("deep"); err == nil {
		t.Error("ParseDepth(deep) succeeded")
	}
}

func TestUnpack(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		d    Depth
		want []Sample
	}{
		{"1bit", []byte{0b10110000}, Depth1, []Sample{1, 0, 1, 1, 0, 0, 0, 0}},
		{"1bit two bytes", []byte{0x01, 0x80}, Depth1, []Sample{0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0}},
		{"4bit", []byte{0b10110100}, Depth4, []Sample{0xB, 0x4}},
		{"4bit two bytes", []byte{0x12, 0xF0}, Depth4, []Sample{1, 2, 0xF, 0}},
		{"8bit", []byte{5, 9, 255}, Depth8, []Sample{5, 9, 255}},
		{"24bit", []byte{1, 2, 3, 4, 5, 6}, Depth24, []Sample{0x010203, 0x040506}},
		{"empty", nil, Depth4, []Sample{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unpack(tt.buf, tt.d)
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Unpack(%v, %d) = %v, want %v", tt.buf, tt.d, got, tt.want)
			}

			back, err := Pack(got, tt.d)
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			if !bytes.Equal(back, tt.buf) {
				t.Errorf("Pack(%v, %d) = %v, want %v", got, tt.d, back, tt.buf)
			}
		})
	}
}

func TestPackNibbles(t *testing.T) {
	got, err := Pack([]Sample{0xB, 0x4}, Depth4)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0b10110100}; !bytes.Equal(got, want) {
		t.Errorf("Pack = %08b, want %08b", got, want)
	}
}

func TestPackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, d := range Depths {
		for _, pixels := range []int{0, 8, 16, 64, 1000} {
			buf := randomBuffer(rng, d, pixels)
			samples, err := Unpack(buf, d)
			if err != nil {
				t.Fatalf("%s: Unpack: %v", d, err)
			}
			if len(samples) != d.Pixels(len(buf)) {
				t.Errorf("%s: %d samples from %d bytes, want %d", d, len(samples), len(buf), d.Pixels(len(buf)))
			}
			got, err := Pack(samples, d)
			if err != nil {
				t.Fatalf("%s: Pack: %v", d, err)
			}
			if !bytes.Equal(got, buf) {
				t.Errorf("%s: round trip of %d bytes differs", d, len(buf))
			}
		}
	}
}

func TestPackPartialGroup(t *testing.T) {
	tests := []struct {
		samples []Sample
		d       Depth
		padded  []byte
	}{
		{[]Sample{1, 0, 1}, Depth1, []byte{0b10100000}},
		{[]Sample{1, 1, 1, 1, 1, 1, 1, 1, 1}, Depth1, []byte{0xFF, 0x80}},
		{[]Sample{0xB}, Depth4, []byte{0xB0}},
		{[]Sample{0x1, 0x2, 0x3}, Depth4, []byte{0x12, 0x30}},
	}
	for _, tt := range tests {
		if _, err := Pack(tt.samples, tt.d); !errors.Is(err, ErrMalformedBuffer) {
			t.Errorf("Pack(%v, %d) error = %v, want %v", tt.samples, tt.d, err, ErrMalformedBuffer)
		}
		got, err := PackPadded(tt.samples, tt.d)
		if err != nil {
			t.Errorf("PackPadded(%v, %d): %v", tt.samples, tt.d, err)
			continue
		}
		if !bytes.Equal(got, tt.padded) {
			t.Errorf("PackPadded(%v, %d) = %08b, want %08b", tt.samples, tt.d, got, tt.padded)
		}
	}
}

func TestPackSampleRange(t *testing.T) {
	tests := []struct {
		samples []Sample
		d       Depth
	}{
		{[]Sample{2, 0, 0, 0, 0, 0, 0, 0}, Depth1},
		{[]Sample{0x10, 0}, Depth4},
		{[]Sample{256}, Depth8},
		{[]Sample{1 << 24}, Depth24},
	}
	for _, tt := range tests {
		if _, err := Pack(tt.samples, tt.d); !errors.Is(err, ErrMalformedBuffer) {
			t.Errorf("Pack(%v, %d) error = %v, want %v", tt.samples, tt.d, err, ErrMalformedBuffer)
		}
	}
}

func TestUnsupportedDepth(t *testing.T) {
	buf := []byte{1, 2, 3}
	if _, err := Unpack(buf, 7); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("Unpack error = %v, want %v", err, ErrUnsupportedBitDepth)
	}
	if _, err := Pack([]Sample{1}, 16); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("Pack error = %v, want %v", err, ErrUnsupportedBitDepth)
	}
	if _, err := Unpack([]byte{1, 2}, Depth24); !errors.Is(err, ErrMalformedBuffer) {
		t.Errorf("Unpack of 2 bytes at 24 bits error = %v, want %v", err, ErrMalformedBuffer)
	}
}

func FuzzPackRoundTrip(f *testing.F) {
	f.Add([]byte{0b10110100}, uint8(4))
	f.Add([]byte{1, 2, 3, 4, 5, 6}, uint8(24))
	f.Add([]byte{0x81}, uint8(1))
	f.Fuzz(func(t *testing.T, buf []byte, depth uint8) {
		d := Depths[int(depth)%len(Depths)]
		buf = buf[:len(buf)-len(buf)%d.Channels()]
		samples, err := Unpack(buf, d)
		if err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		got, err := Pack(samples, d)
		if err != nil {
			t.Fatalf("Pack: %v", err)
		}
		if !bytes.Equal(got, buf) {
			t.Errorf("round trip at %s: got %v, want %v", d, got, buf)
		}
	})
}
