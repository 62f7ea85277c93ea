package drumsynth

import (
	"fmt"
	"strings"
)

// Interpolation selects how the bass layer is expanded to a block
type Interpolation int

const (
	Linear Interpolation = iota
	Spline
)

func (i Interpolation) String() string {
	switch i {
	case Linear:
		return "linear"
	case Spline:
		return "spline"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation accepts "linear" or "spline"
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "linear", "lerp", "":
		return Linear, nil
	case "spline":
		return Spline, nil
	}
	return Linear, fmt.Errorf("unknown interpolation: %s", s)
}

// Average returns (a+b+dither bit)>>1 and consumes the low dither bit
func Average(a, b int8, dither *uint8) int8 {
	val := int8((int16(a) + int16(b) + int16(*dither&1)) >> 1)
	*dither >>= 1
	return val
}

// Lerp8 fills v with a dithered ramp from start towards end by recursive
// bisection. v[0] is start; v[7] is the midpoint of v[6] and end.
func Lerp8(src ByteSource, start, end int8, v *[BlockSize]int8) {
	dither := src.NextByte()
	v[0] = start
	v[4] = Average(v[0], end, &dither)
	v[2] = Average(v[0], v[4], &dither)
	v[6] = Average(v[4], end, &dither)
	v[1] = Average(v[0], v[2], &dither)
	v[3] = Average(v[2], v[4], &dither)
	v[5] = Average(v[4], v[6], &dither)
	v[7] = Average(v[6], end, &dither)
}

// Spline8 averages the ramps p0->p1 and p1->p2 pointwise
func Spline8(src ByteSource, p0, p1, p2 int8, v *[BlockSize]int8) {
	dither := src.NextByte()
	var l0, l1 [BlockSize]int8
	Lerp8(src, p0, p1, &l0)
	Lerp8(src, p1, p2, &l1)
	for i := range v {
		v[i] = Average(l0[i], l1[i], &dither)
	}
}
