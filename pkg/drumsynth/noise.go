package drumsynth

import (
	"math/rand"
)

// ByteSource supplies the pseudo-random bytes used for dithering and for
// the treble noise.
type ByteSource interface {
	NextByte() uint8
}

type globalSource struct{}

func (globalSource) NextByte() uint8 {
	return uint8(rand.Int())
}

// GlobalSource returns the process-wide generator. Its output differs from
// run to run.
func GlobalSource() ByteSource {
	return globalSource{}
}

// RandSource is a seeded generator giving reproducible renders
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a generator from a seed
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandSource) NextByte() uint8 {
	return uint8(r.rng.Int())
}

// SequenceSource replays a fixed byte sequence, wrapping at the end.
// An empty sequence yields zeros.
type SequenceSource struct {
	Bytes []byte
	pos   int
}

// NewSequenceSource creates a source cycling over b
func NewSequenceSource(b ...byte) *SequenceSource {
	return &SequenceSource{Bytes: b}
}

func (s *SequenceSource) NextByte() uint8 {
	if len(s.Bytes) == 0 {
		return 0
	}
	v := s.Bytes[s.pos]
	s.pos = (s.pos + 1) % len(s.Bytes)
	return v
}

// Rewind restarts the sequence
func (s *SequenceSource) Rewind() {
	s.pos = 0
}
