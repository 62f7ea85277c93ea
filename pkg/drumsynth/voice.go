package drumsynth

// State of a voice
type State int

const (
	Idle State = iota
	Triggered
)

func (s State) String() string {
	if s == Triggered {
		return "triggered"
	}
	return "idle"
}

// Voice renders one drum at a time: an interpolated bass layer decoded
// from the delta code, plus filtered noise scaled by a linear envelope.
// A Voice is reused across drums; Trigger resets all of its state. A zero
// Voice draws from the process-wide generator.
type Voice struct {
	decoder DeltaDecoder
	filter  ToneFilter
	src     ByteSource
	interp  Interpolation
	state   State

	bass0, bass1, bass2 int8

	trebleAmplitude int32
	trebleIncrement uint16
}

// NewVoice creates an idle voice. A nil source selects the process-wide
// generator.
func NewVoice(src ByteSource) *Voice {
	if src == nil {
		src = GlobalSource()
	}
	return &Voice{src: src}
}

// SetSource replaces the random source
func (v *Voice) SetSource(src ByteSource) {
	if src == nil {
		src = GlobalSource()
	}
	v.src = src
}

// SetInterpolation selects the bass interpolation used by later blocks
func (v *Voice) SetInterpolation(i Interpolation) {
	v.interp = i
}

// Interpolation returns the current bass interpolation
func (v *Voice) Interpolation() Interpolation {
	return v.interp
}

// Trigger starts a new drum
func (v *Voice) Trigger(d Drum) {
	v.decoder.Trigger(d.Bass)
	v.trebleAmplitude = int32(uint32(d.Treble.Initial) << 8)
	v.trebleIncrement = d.Treble.Increment
	v.filter.Init(d.Filter)
	v.bass0 = 0
	v.bass1 = 0
	v.bass2 = 0
	v.state = Triggered
}

// State returns Idle once both layers have run out
func (v *Voice) State() State {
	return v.state
}

// BassActive reports whether the bass decoder still has codes
func (v *Voice) BassActive() bool {
	return v.decoder.Active()
}

// TrebleActive reports whether the treble envelope is above zero
func (v *Voice) TrebleActive() bool {
	return v.trebleAmplitude > 0
}

// Active reports whether the next block would contribute anything
func (v *Voice) Active() bool {
	return v.state == Triggered && (v.BassActive() || v.TrebleActive())
}

// TrebleAmplitude returns the envelope level in 8.8 fixed point
func (v *Voice) TrebleAmplitude() int32 {
	return v.trebleAmplitude
}

// DecodeBlock adds one block of the voice into dest. The buffer is never
// cleared. On an idle voice this does nothing.
func (v *Voice) DecodeBlock(dest *Block) {
	if v.state != Triggered {
		return
	}
	if v.src == nil {
		v.src = GlobalSource()
	}

	// bass
	if v.decoder.Active() {
		v.bass2 = v.bass1
		v.bass1 = v.bass0
		v.bass0 = v.decoder.Next()
		var b [BlockSize]int8
		if v.interp == Spline {
			Spline8(v.src, v.bass2, v.bass1, v.bass0, &b)
		} else {
			Lerp8(v.src, v.bass1, v.bass0, &b)
		}
		for i := 0; i < BlockSize; i++ {
			dest[i] += int16(b[i])
		}
	}

	// treble
	if v.trebleAmplitude > 0 {
		amplitude := int32(v.trebleAmplitude >> 8)
		if amplitude > 0xFF {
			amplitude = 0xFF
		}
		for i := 0; i < BlockSize; i++ {
			noiz := int8(v.src.NextByte())
			val := v.filter.Next(int16(noiz))
			val = int16((int32(val) * amplitude) >> 8)
			dest[i] += val
		}

		v.trebleAmplitude -= int32(v.trebleIncrement)
	}

	if !v.decoder.Active() && v.trebleAmplitude <= 0 {
		v.state = Idle
	}
}

// Render decodes len(buf)/BlockSize consecutive blocks into buf, adding to
// its contents. It returns whether the voice is still active.
func (v *Voice) Render(buf []int16) bool {
	for i := 0; i+BlockSize <= len(buf); i += BlockSize {
		v.DecodeBlock((*Block)(buf[i : i+BlockSize]))
	}
	return v.Active()
}
