package raster

import "testing"

func TestBandFormatSize(t *testing.T) {
	tests := []struct {
		format BandFormat
		size   int
	}{
		{FormatUChar, 1},
		{FormatChar, 1},
		{FormatUShort, 2},
		{FormatShort, 2},
		{FormatUInt, 4},
		{FormatInt, 4},
		{FormatFloat, 4},
		{FormatComplex, 8},
		{FormatDouble, 8},
		{FormatDPComplex, 16},
		{FormatNotSet, 0},
	}
	for _, tt := range tests {
		if got := tt.format.Size(); got != tt.size {
			t.Errorf("%v.Size() = %d, want %d", tt.format, got, tt.size)
		}
	}
}

func TestParseBandFormat(t *testing.T) {
	for f := FormatUChar; f <= FormatDPComplex; f++ {
		got, ok := ParseBandFormat(" " + f.String() + " ")
		if !ok || got != f {
			t.Errorf("ParseBandFormat(%q) = %v, %v", f.String(), got, ok)
		}
	}
	if _, ok := ParseBandFormat("half"); ok {
		t.Error("ParseBandFormat accepted an unknown name")
	}
	if FormatNotSet.IsValid() || BandFormat(10).IsValid() {
		t.Error("out-of-range formats reported valid")
	}
}

func TestBandFormatClasses(t *testing.T) {
	if !FormatShort.IsInt() || FormatShort.IsUnsigned() {
		t.Error("short classified wrong")
	}
	if !FormatUInt.IsUnsigned() || FormatUInt.IsFloat() {
		t.Error("uint classified wrong")
	}
	if !FormatDouble.IsFloat() || FormatDouble.IsComplex() {
		t.Error("double classified wrong")
	}
	if !FormatComplex.IsComplex() || FormatComplex.IsInt() {
		t.Error("complex classified wrong")
	}
	if lo, hi := FormatChar.Range(); lo != -128 || hi != 127 {
		t.Errorf("char range = %v..%v", lo, hi)
	}
}

func TestCoding(t *testing.T) {
	for _, c := range []Coding{CodingNone, CodingLabQ, CodingRad} {
		if !IsKnownCoding(c) {
			t.Errorf("%v not known", c)
		}
		if got, ok := ParseCoding(c.String()); !ok || got != c {
			t.Errorf("ParseCoding(%q) = %v, %v", c.String(), got, ok)
		}
	}
	for _, c := range []Coding{CodingError, Coding(1), Coding(7)} {
		if IsKnownCoding(c) {
			t.Errorf("coding %d reported known", int(c))
		}
	}
	if _, ok := ParseCoding("jpeg"); ok {
		t.Error("ParseCoding accepted an unknown name")
	}
}
