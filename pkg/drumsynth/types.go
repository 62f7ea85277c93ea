package drumsynth

// Rendering constants
const (
	BlockSize         = 8
	DefaultSampleRate = 22050
	DefaultSeconds    = 3
)

// Sample is an encoded bass waveform. Data[0] is the header byte and holds
// the first four 2-bit codes; Len is the number of bytes the decoder may
// fetch. A nil Data or a zero Len means the voice has no bass layer.
type Sample struct {
	Len  uint16
	Data []byte
}

// Empty reports whether the sample carries no bass layer.
func (s Sample) Empty() bool {
	return s.Data == nil || s.Len == 0
}

// Envelope is the treble decay profile. Initial is the starting amplitude,
// Increment the amount subtracted per block in 8.8 fixed point.
type Envelope struct {
	Increment uint16
	Initial   uint16
}

// Blocks returns the number of blocks the treble layer stays audible.
// A zero Increment never decays and returns -1.
func (e Envelope) Blocks() int {
	amp := int(e.Initial) << 8
	if amp <= 0 {
		return 0
	}
	if e.Increment == 0 {
		return -1
	}
	return (amp + int(e.Increment) - 1) / int(e.Increment)
}

// Filter holds the 2-pole/2-zero treble filter coefficients
type Filter struct {
	A2, A3     int8
	B1, B2, B3 int8
}

// Drum is one voice definition
type Drum struct {
	Treble Envelope
	Filter Filter
	Bass   Sample
}

// Block is one rendered block of output samples
type Block [BlockSize]int16

// BlocksFor returns how many blocks cover the given duration
func BlocksFor(sampleRate, seconds int) int {
	return sampleRate * seconds / BlockSize
}
