package rasterfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrjoshuak/go-raster/compression"
	"github.com/mrjoshuak/go-raster/raster"
)

func TestNativeRoundTripFormats(t *testing.T) {
	for f := raster.FormatUChar; f <= raster.FormatDPComplex; f++ {
		t.Run(f.String(), func(t *testing.T) {
			r := testRaster(t, 13, 9, 3, f)
			back := roundTrip(t, r, "img.v")
			if back.IsResident() {
				t.Error("pixels decoded before first use")
			}
			assertSame(t, r, back)
		})
	}
}

func TestNativeRoundTripMethods(t *testing.T) {
	for _, m := range []compression.Method{compression.None, compression.RLE, compression.ZIP, compression.HTJ2K} {
		t.Run(m.String(), func(t *testing.T) {
			prev := SetCompression(m)
			defer SetCompression(prev)

			r := testRaster(t, 40, 21, 2, raster.FormatUShort)
			assertSame(t, r, roundTrip(t, r, "img.v"))
		})
	}
}

func TestNativeSmallChunks(t *testing.T) {
	r := testRaster(t, 5, 11, 1, raster.FormatFloat)
	var buf bytes.Buffer
	if err := NewNative(compression.RLE, 3).Save(&buf, r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data := buf.Bytes()
	n := &Native{}
	h, err := n.Header(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if h.Width != 5 || h.Height != 11 || h.Bands != 1 || h.Format != raster.FormatFloat {
		t.Fatalf("Header = %+v", h)
	}
	dst := make([]byte, h.ImageSize())
	if err := n.Load(bytes.NewReader(data), int64(len(data)), h, dst); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(dst, pixels(t, r)) {
		t.Error("pixels differ")
	}
}

func TestNativeCoded(t *testing.T) {
	for _, c := range []raster.Coding{raster.CodingLabQ, raster.CodingRad} {
		r, err := raster.NewCoded(6, 4, c)
		if err != nil {
			t.Fatalf("NewCoded: %v", err)
		}
		pix := r.Bytes()
		for i := range pix {
			pix[i] = byte(i * 5)
		}
		assertSame(t, r, roundTrip(t, r, "coded.v"))
	}
}

func TestNativeFallsBackFromHTJ2K(t *testing.T) {
	var buf bytes.Buffer
	r := testRaster(t, 4, 4, 1, raster.FormatDouble)
	if err := NewNative(compression.HTJ2K, 0).Save(&buf, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if m := compression.Method(buf.Bytes()[5]); m != compression.ZIP {
		t.Errorf("stored compression = %v, want zip", m)
	}
}

// TestNativeHTJ2KExact checks that an HTJ2K save never stores chunks that
// decode differently. When the codec cannot reproduce a chunk the file is
// written with zip instead.
func TestNativeHTJ2KExact(t *testing.T) {
	for _, f := range []raster.BandFormat{raster.FormatUChar, raster.FormatUShort} {
		t.Run(f.String(), func(t *testing.T) {
			r := testRaster(t, 17, 9, 1, f)
			var buf bytes.Buffer
			if err := NewNative(compression.HTJ2K, 4).Save(&buf, r); err != nil {
				t.Fatalf("Save: %v", err)
			}
			data := buf.Bytes()
			if m := compression.Method(data[5]); m != compression.HTJ2K && m != compression.ZIP {
				t.Errorf("stored compression = %v, want htj2k or zip", m)
			}

			n := &Native{}
			h, err := n.Header(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatalf("Header: %v", err)
			}
			dst := make([]byte, h.ImageSize())
			if err := n.Load(bytes.NewReader(data), int64(len(data)), h, dst); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !bytes.Equal(dst, pixels(t, r)) {
				t.Error("pixels differ")
			}
		})
	}
}

func TestNativeCorrupt(t *testing.T) {
	r := testRaster(t, 8, 8, 1, raster.FormatUChar)
	var buf bytes.Buffer
	if err := NewNative(compression.ZIP, 2).Save(&buf, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	good := buf.Bytes()

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), good...))
	}
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", good[:20], ErrCorrupt},
		{"version", mutate(func(b []byte) []byte { b[4] = 9; return b }), ErrUnsupported},
		{"method", mutate(func(b []byte) []byte { b[5] = 200; return b }), ErrUnsupported},
		{"bands", mutate(func(b []byte) []byte { b[16] = 0; return b }), ErrCorrupt},
		{"chunk count", mutate(func(b []byte) []byte { b[32] = 9; return b }), ErrCorrupt},
	}
	n := &Native{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Header(bytes.NewReader(tt.data), int64(len(tt.data)))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	// A truncated chunk fails when pixels are needed, not on Read.
	path := filepath.Join(t.TempDir(), "trunc.v")
	if err := os.WriteFile(path, good[:len(good)-4], 0o644); err != nil {
		t.Fatal(err)
	}
	back, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer back.Close()
	if err := raster.EnsureResident(back); !errors.Is(err, raster.ErrIO) {
		t.Errorf("EnsureResident err = %v, want ErrIO", err)
	}
}

func TestPaintIntoLoadedFile(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.v")
	if err := Write(testRaster(t, 10, 10, 3, raster.FormatUChar), mainPath); err != nil {
		t.Fatal(err)
	}
	sub, err := raster.New(4, 4, 1, raster.FormatUChar)
	if err != nil {
		t.Fatal(err)
	}
	if err := raster.DrawRect(sub, []float64{200}, sub.Bounds()); err != nil {
		t.Fatal(err)
	}

	img, err := Read(mainPath)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer img.Close()
	if err := raster.DrawImage(img, sub, 8, 8); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	v, _ := img.View()
	if got := v.Pel(9, 9); !bytes.Equal(got, []byte{200, 200, 200}) {
		t.Errorf("pixel (9,9) = %v", got)
	}
}
