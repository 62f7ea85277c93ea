package drumsynth

// ToneFilter is the fixed-point 2-pole/2-zero filter shaping the treble
// noise. Each product is scaled by its own shift (8, 8, 7, 6, 7) and the
// sum wraps at 16 bits.
type ToneFilter struct {
	a2, a3, b1, b2, b3 int8
	xn1, xn2           int16
	yn1, yn2           int16
}

// Init loads coefficients and clears the history
func (f *ToneFilter) Init(c Filter) {
	f.a2 = c.A2
	f.a3 = c.A3
	f.b1 = c.B1
	f.b2 = c.B2
	f.b3 = c.B3
	f.xn1 = 0
	f.xn2 = 0
	f.yn1 = 0
	f.yn2 = 0
}

func mulShift(c int8, v int16, shift uint) int16 {
	return int16((int32(c) * int32(v)) >> shift)
}

// Next filters one input sample
func (f *ToneFilter) Next(xx int16) int16 {
	b1xx := mulShift(f.b1, xx, 8)
	b2x1 := mulShift(f.b2, f.xn1, 8)
	b3x2 := mulShift(f.b3, f.xn2, 7)
	a2y1 := mulShift(f.a2, f.yn1, 6)
	a3y2 := mulShift(f.a3, f.yn2, 7)
	yy := b1xx + b2x1 + b3x2 - a2y1 - a3y2

	f.xn2 = f.xn1
	f.yn2 = f.yn1
	f.xn1 = xx
	f.yn1 = yy

	return yy
}
