package rasterfile

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mrjoshuak/go-raster/raster"
)

// testRaster returns a raster whose samples vary with position.
func testRaster(t *testing.T, width, height, bands int, format raster.BandFormat) *raster.Raster {
	t.Helper()
	r, err := raster.New(width, height, bands, format)
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	v, err := r.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for b := 0; b < bands; b++ {
				v.SetFloat64(x, y, b, float64((x*7+y*13+b*31)%200+b))
			}
		}
	}
	return r
}

// pixels returns the packed pixel bytes of r, loading it if needed.
func pixels(t *testing.T, r *raster.Raster) []byte {
	t.Helper()
	v, err := r.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	var out []byte
	for y := 0; y < r.Height(); y++ {
		out = append(out, v.Row(y)...)
	}
	return out
}

// roundTrip writes r under name in a temporary directory and reads it back.
func roundTrip(t *testing.T, r *raster.Raster, name string, opts ...ReadOption) *raster.Raster {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := Write(r, path); err != nil {
		t.Fatalf("Write(%s): %v", name, err)
	}
	back, err := Read(path, opts...)
	if err != nil {
		t.Fatalf("Read(%s): %v", name, err)
	}
	t.Cleanup(func() { back.Close() })
	return back
}

func assertSame(t *testing.T, want, got *raster.Raster) {
	t.Helper()
	type header struct {
		W, H, Bands int
		Format      raster.BandFormat
		Coding      raster.Coding
	}
	hw := header{want.Width(), want.Height(), want.Bands(), want.Format(), want.Coding()}
	hg := header{got.Width(), got.Height(), got.Bands(), got.Format(), got.Coding()}
	if diff := cmp.Diff(hw, hg); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pixels(t, want), pixels(t, got)); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}
}
