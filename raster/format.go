package raster

import "strings"

// BandFormat is the numeric type of every sample in a raster.
type BandFormat int

const (
	// FormatNotSet marks an uninitialised format and is never valid.
	FormatNotSet BandFormat = -1
	// FormatUChar is an unsigned 8-bit integer.
	FormatUChar BandFormat = 0
	// FormatChar is a signed 8-bit integer.
	FormatChar BandFormat = 1
	// FormatUShort is an unsigned 16-bit integer.
	FormatUShort BandFormat = 2
	// FormatShort is a signed 16-bit integer.
	FormatShort BandFormat = 3
	// FormatUInt is an unsigned 32-bit integer.
	FormatUInt BandFormat = 4
	// FormatInt is a signed 32-bit integer.
	FormatInt BandFormat = 5
	// FormatFloat is an IEEE 754 32-bit float.
	FormatFloat BandFormat = 6
	// FormatComplex is a pair of 32-bit floats (real, imaginary).
	FormatComplex BandFormat = 7
	// FormatDouble is an IEEE 754 64-bit float.
	FormatDouble BandFormat = 8
	// FormatDPComplex is a pair of 64-bit floats (real, imaginary).
	FormatDPComplex BandFormat = 9
)

var formatNames = [...]string{
	FormatUChar:     "uchar",
	FormatChar:      "char",
	FormatUShort:    "ushort",
	FormatShort:     "short",
	FormatUInt:      "uint",
	FormatInt:       "int",
	FormatFloat:     "float",
	FormatComplex:   "complex",
	FormatDouble:    "double",
	FormatDPComplex: "dpcomplex",
}

// String returns the lower-case name of the format.
func (f BandFormat) String() string {
	if !f.IsValid() {
		return "notset"
	}
	return formatNames[f]
}

// ParseBandFormat returns the format with the given name.
func ParseBandFormat(s string) (BandFormat, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range formatNames {
		if name == s {
			return BandFormat(i), true
		}
	}
	return FormatNotSet, false
}

// IsValid reports whether f is one of the defined formats.
func (f BandFormat) IsValid() bool {
	return f >= FormatUChar && f <= FormatDPComplex
}

// Size returns the number of bytes one sample occupies.
// Complex formats count both components.
func (f BandFormat) Size() int {
	switch f {
	case FormatUChar, FormatChar:
		return 1
	case FormatUShort, FormatShort:
		return 2
	case FormatUInt, FormatInt, FormatFloat:
		return 4
	case FormatComplex, FormatDouble:
		return 8
	case FormatDPComplex:
		return 16
	default:
		return 0
	}
}

// IsInt reports whether f is an integer format.
func (f BandFormat) IsInt() bool {
	return f >= FormatUChar && f <= FormatInt
}

// IsUnsigned reports whether f is an unsigned integer format.
func (f BandFormat) IsUnsigned() bool {
	return f == FormatUChar || f == FormatUShort || f == FormatUInt
}

// IsFloat reports whether f is a real floating-point format.
func (f BandFormat) IsFloat() bool {
	return f == FormatFloat || f == FormatDouble
}

// IsComplex reports whether f is a complex format.
func (f BandFormat) IsComplex() bool {
	return f == FormatComplex || f == FormatDPComplex
}

// Range returns the smallest and largest values representable in an integer
// format. For non-integer formats it returns (0, 0).
func (f BandFormat) Range() (lo, hi float64) {
	switch f {
	case FormatUChar:
		return 0, 255
	case FormatChar:
		return -128, 127
	case FormatUShort:
		return 0, 65535
	case FormatShort:
		return -32768, 32767
	case FormatUInt:
		return 0, 4294967295
	case FormatInt:
		return -2147483648, 2147483647
	default:
		return 0, 0
	}
}

// Coding describes how the bytes of a pixel are represented.
type Coding int

const (
	// CodingError is the undefined coding. Rasters never carry it legitimately.
	CodingError Coding = -1
	// CodingNone stores raw samples of the raster's band format.
	CodingNone Coding = 0
	// CodingLabQ packs CIE Lab into four bytes per pixel.
	CodingLabQ Coding = 2
	// CodingRad is Radiance RGBE, a shared-exponent HDR form in four bytes.
	CodingRad Coding = 6
)

// String returns the lower-case name of the coding.
func (c Coding) String() string {
	switch c {
	case CodingNone:
		return "none"
	case CodingLabQ:
		return "labq"
	case CodingRad:
		return "rad"
	default:
		return "error"
	}
}

// ParseCoding returns the coding with the given name.
func ParseCoding(s string) (Coding, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return CodingNone, true
	case "labq":
		return CodingLabQ, true
	case "rad":
		return CodingRad, true
	default:
		return CodingError, false
	}
}

// IsKnownCoding reports whether c is a recognised coding value.
func IsKnownCoding(c Coding) bool {
	return c == CodingNone || c == CodingLabQ || c == CodingRad
}

// codedPelSize is the pel size of every coding other than CodingNone.
const codedPelSize = 4
