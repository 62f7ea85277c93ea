// Package drumsynth reconstructs two-layer drum voices: a 2-bit adaptive
// delta coded bass waveform and an envelope-scaled filtered noise treble.
// All arithmetic is fixed point and wraps like the target hardware.
package drumsynth

// Synth is the block renderer used by the tools. The zero value is ready
// to use and draws from the process-wide generator.
type Synth struct {
	voice *Voice
	block Block
	fill  int
}

// Create creates a synth drawing from the process-wide generator
func Create() *Synth {
	return CreateWithSource(nil)
}

// CreateWithSource creates a synth with an explicit random source
func CreateWithSource(src ByteSource) *Synth {
	return &Synth{
		voice: NewVoice(src),
		fill:  BlockSize,
	}
}

// Voice exposes the underlying voice
func (s *Synth) Voice() *Voice {
	return s.ensureVoice()
}

func (s *Synth) ensureVoice() *Voice {
	if s.voice == nil {
		s.voice = NewVoice(nil)
		s.fill = BlockSize
	}
	return s.voice
}

// Trigger starts a drum
func (s *Synth) Trigger(d Drum) {
	s.ensureVoice().Trigger(d)
	s.fill = BlockSize
}

// SetInterpolation selects the bass interpolation
func (s *Synth) SetInterpolation(i Interpolation) {
	s.ensureVoice().SetInterpolation(i)
}

// Compute overwrites buffer[:nbSamples] with the next samples of the voice.
// Partial blocks are carried over to the next call. It returns false once
// the voice is over.
func (s *Synth) Compute(buffer []int16, nbSamples int) bool {
	if nbSamples > len(buffer) {
		nbSamples = len(buffer)
	}
	s.ensureVoice()
	for i := 0; i < nbSamples; i++ {
		if s.fill == BlockSize {
			s.block = Block{}
			s.voice.DecodeBlock(&s.block)
			s.fill = 0
		}
		buffer[i] = s.block[s.fill]
		s.fill++
	}
	return !s.IsOver()
}

// IsOver reports whether the voice has finished and no buffered samples
// remain
func (s *Synth) IsOver() bool {
	if s.voice == nil {
		return true
	}
	return !s.voice.Active() && s.fill == BlockSize
}

// RenderDrum renders numBlocks blocks of d into a fresh zeroed buffer
func RenderDrum(d Drum, numBlocks int, src ByteSource) []int16 {
	return RenderDrumWith(d, numBlocks, src, Linear)
}

// RenderDrumWith is RenderDrum with an explicit bass interpolation
func RenderDrumWith(d Drum, numBlocks int, src ByteSource, interp Interpolation) []int16 {
	buffer := make([]int16, numBlocks*BlockSize)
	v := NewVoice(src)
	v.SetInterpolation(interp)
	v.Trigger(d)
	for i := 0; i < numBlocks; i++ {
		v.DecodeBlock((*Block)(buffer[i*BlockSize : (i+1)*BlockSize]))
	}
	return buffer
}
