package drumsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		a, b   int8
		dither uint8
		want   int8
	}{
		{5, 5, 0, 5},
		{-7, -7, 0, -7},
		{0, 1, 0, 0},
		{0, 1, 1, 1},
		{-8, 0, 1, -4},
		{127, 127, 1, 127},
		{-128, -128, 0, -128},
		{-128, 127, 0, -1},
	}

	for _, tc := range tests {
		d := tc.dither
		got := Average(tc.a, tc.b, &d)
		assert.Equal(t, tc.want, got, "average(%d, %d, %d)", tc.a, tc.b, tc.dither)
		assert.Equal(t, tc.dither>>1, d, "dither bit consumed")
	}
}

func TestLerp8(t *testing.T) {
	tests := []struct {
		name       string
		start, end int8
		dither     byte
		want       [BlockSize]int8
	}{
		{"ramp up", 0, 8, 0x00, [BlockSize]int8{0, 1, 2, 3, 4, 5, 6, 7}},
		{"ramp up dithered", 0, 8, 0xFF, [BlockSize]int8{0, 1, 2, 3, 4, 5, 6, 7}},
		{"ramp down", 0, -8, 0x00, [BlockSize]int8{0, -1, -2, -3, -4, -5, -6, -7}},
		{"ramp down dithered", 0, -8, 0xFF, [BlockSize]int8{0, -1, -2, -3, -4, -5, -6, -7}},
		{"small step", 0, 1, 0x00, [BlockSize]int8{0, 0, 0, 0, 0, 0, 0, 0}},
		{"small step dithered", 0, 1, 0xFF, [BlockSize]int8{0, 1, 1, 1, 1, 1, 1, 1}},
		{"first bit only", 0, 1, 0x01, [BlockSize]int8{0, 0, 0, 0, 1, 1, 1, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var v [BlockSize]int8
			Lerp8(NewSequenceSource(tc.dither), tc.start, tc.end, &v)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestLerp8Constant(t *testing.T) {
	for _, x := range []int8{-128, -3, 0, 1, 64, 127} {
		var v [BlockSize]int8
		Lerp8(NewSequenceSource(0), x, x, &v)
		for i := range v {
			assert.Equal(t, x, v[i], "x=%d index %d", x, i)
		}
	}
}

func TestLerp8DrawsOneByte(t *testing.T) {
	src := NewSequenceSource(0x00, 0xFF)
	var v [BlockSize]int8
	Lerp8(src, 0, 1, &v)
	Lerp8(src, 0, 1, &v)
	assert.Equal(t, [BlockSize]int8{0, 1, 1, 1, 1, 1, 1, 1}, v)
}

func TestSpline8(t *testing.T) {
	var v [BlockSize]int8
	Spline8(NewSequenceSource(0), 0, 8, 16, &v)
	assert.Equal(t, [BlockSize]int8{4, 5, 6, 7, 8, 9, 10, 11}, v)

	Spline8(NewSequenceSource(0), -20, -20, -20, &v)
	for i := range v {
		assert.Equal(t, int8(-20), v[i])
	}
}

func TestSpline8DitherOrder(t *testing.T) {
	// the spline's own dither byte is drawn before the two ramps
	src := NewSequenceSource(0xFF, 0x00, 0x00)
	var v [BlockSize]int8
	Spline8(src, 0, 0, 1, &v)
	// l0 = zeros, l1 = zeros (no dither), averages with dither 1 -> (0+0+1)>>1 = 0
	assert.Equal(t, [BlockSize]int8{}, v)

	src = NewSequenceSource(0x00, 0x00, 0xFF)
	Spline8(src, 0, 1, 1, &v)
	// l0 = 0->1 undithered = zeros, l1 = constant 1, averages (0+1)>>1 = 0
	assert.Equal(t, [BlockSize]int8{}, v)
}

func TestParseInterpolation(t *testing.T) {
	i, err := ParseInterpolation("Spline")
	assert.NoError(t, err)
	assert.Equal(t, Spline, i)

	i, err = ParseInterpolation("linear")
	assert.NoError(t, err)
	assert.Equal(t, Linear, i)

	_, err = ParseInterpolation("cubic")
	assert.Error(t, err)

	assert.Equal(t, "spline", Spline.String())
}
