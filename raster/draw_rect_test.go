package raster

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDrawRect(t *testing.T) {
	r := filled(t, 5, 4, 2, FormatUShort, 0)

	if err := DrawRect(r, []float64{7, 70000}, Rect{Left: 3, Top: -1, Width: 5, Height: 3}); err != nil {
		t.Fatalf("DrawRect: %v", err)
	}

	v := mustView(t, r)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := []float64{0, 0}
			if x >= 3 && y < 2 {
				want = []float64{7, 65535}
			}
			got := []float64{v.Float64(x, y, 0), v.Float64(x, y, 1)}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("pixel (%d,%d) (-want +got):\n%s", x, y, diff)
			}
		}
	}
}

func TestDrawRectErrors(t *testing.T) {
	r := filled(t, 2, 2, 3, FormatUChar, 0)
	if err := DrawRect(r, []float64{1, 2}, r.Bounds()); !errors.Is(err, ErrIncompatibleBands) {
		t.Errorf("two inks for three bands: err = %v", err)
	}
	coded, err := NewCoded(2, 2, CodingRad)
	if err != nil {
		t.Fatalf("NewCoded: %v", err)
	}
	if err := DrawRect(coded, []float64{1}, coded.Bounds()); !errors.Is(err, ErrNotUncoded) {
		t.Errorf("coded: err = %v", err)
	}

	d, err := NewRectDraw(r, []float64{1})
	if err != nil {
		t.Fatalf("NewRectDraw: %v", err)
	}
	if err := d.DrawRect(Rect{Left: 1, Top: 1, Width: 2, Height: 1}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("clip outside: err = %v", err)
	}
}

func TestFloor(t *testing.T) {
	tests := []struct {
		format BandFormat
		in     []float64
		want   []float64
	}{
		{FormatFloat, []float64{1.5, -1.5, 2, -0.25}, []float64{1, -2, 2, -1}},
		{FormatDouble, []float64{1e10 + 0.5, -3.999, 0, 7}, []float64{1e10, -4, 0, 7}},
		{FormatShort, []float64{-5, 3, 0, 9}, []float64{-5, 3, 0, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			in, err := New(len(tt.in), 1, 1, tt.format)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			iv := mustView(t, in)
			for x, v := range tt.in {
				iv.SetFloat64(x, 0, 0, v)
			}
			out, err := Floor(in)
			if err != nil {
				t.Fatalf("Floor: %v", err)
			}
			if out.Format() != tt.format {
				t.Errorf("format = %v", out.Format())
			}
			ov := mustView(t, out)
			var got []float64
			for x := range tt.in {
				got = append(got, ov.Float64(x, 0, 0))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFloorComplex(t *testing.T) {
	in, err := New(1, 1, 1, FormatDPComplex)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	writeSample(mustView(t, in).Pel(0, 0), FormatDPComplex, 2.5, -0.5)
	out, err := Floor(in)
	if err != nil {
		t.Fatalf("Floor: %v", err)
	}
	re, im := readSample(mustView(t, out).Pel(0, 0), FormatDPComplex)
	if re != 2 || im != -1 {
		t.Errorf("floor = (%v, %v), want (2, -1)", re, im)
	}

	coded, err := NewCoded(1, 1, CodingLabQ)
	if err != nil {
		t.Fatalf("NewCoded: %v", err)
	}
	if _, err := Floor(coded); !errors.Is(err, ErrNotUncoded) {
		t.Errorf("coded: err = %v", err)
	}
}
