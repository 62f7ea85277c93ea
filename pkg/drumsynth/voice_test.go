package drumsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDrum = Drum{
	Treble: Envelope{Increment: 0x0400, Initial: 0x00C0},
	Filter: Filter{A2: -58, A3: 103, B1: 96, B2: 0, B3: -48},
	Bass:   Sample{Len: 4, Data: []byte{0x4A, 0x0F, 0x9C, 0x31}},
}

func TestVoiceIdleUntilTriggered(t *testing.T) {
	v := NewVoice(NewSequenceSource(1, 2, 3))
	assert.Equal(t, Idle, v.State())
	assert.False(t, v.Active())

	var b Block
	v.DecodeBlock(&b)
	assert.Equal(t, Block{}, b)
}

func TestVoiceSilentDrum(t *testing.T) {
	v := NewVoice(NewSequenceSource(0x55))
	v.Trigger(Drum{})
	assert.Equal(t, Triggered, v.State())
	assert.False(t, v.Active())

	b := Block{1, 2, 3, 4, 5, 6, 7, 8}
	v.DecodeBlock(&b)
	assert.Equal(t, Block{1, 2, 3, 4, 5, 6, 7, 8}, b)
	assert.Equal(t, Idle, v.State())
}

func TestVoiceEnvelopeBlocks(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want int
	}{
		{"two blocks", Envelope{Initial: 0x0002, Increment: 0x0100}, 2},
		{"exact multiple", Envelope{Initial: 0x0200, Increment: 0x0100}, 512},
		{"rounds up", Envelope{Initial: 0x0001, Increment: 0x00C0}, 2},
		{"single block", Envelope{Initial: 0x0001, Increment: 0xFFFF}, 1},
		{"no treble", Envelope{Initial: 0, Increment: 0x0100}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := NewVoice(NewRandSource(3))
			v.Trigger(Drum{Treble: tc.env})

			blocks := 0
			var b Block
			for v.TrebleActive() {
				v.DecodeBlock(&b)
				blocks++
				require.LessOrEqual(t, blocks, 1<<16)
			}
			v.DecodeBlock(&b)
			assert.Equal(t, tc.want, blocks)
			assert.Equal(t, tc.want, tc.env.Blocks())
			assert.Equal(t, Idle, v.State())
		})
	}
}

func TestVoiceAmplitudeGoesNegative(t *testing.T) {
	v := NewVoice(NewRandSource(3))
	v.Trigger(Drum{Treble: Envelope{Initial: 0x0001, Increment: 0x0180}})

	var b Block
	v.DecodeBlock(&b)
	assert.Equal(t, int32(0x0100-0x0180), v.TrebleAmplitude())
	assert.False(t, v.TrebleActive())
}

func TestEnvelopeWithoutDecay(t *testing.T) {
	assert.Equal(t, -1, Envelope{Initial: 1}.Blocks())

	v := NewVoice(NewRandSource(3))
	v.Trigger(Drum{Treble: Envelope{Initial: 0x10}})
	buf := make([]int16, 100*BlockSize)
	assert.True(t, v.Render(buf))
	assert.Equal(t, int32(0x1000), v.TrebleAmplitude())
}

func TestVoiceBassOnly(t *testing.T) {
	// one byte of codes 2,2,0,1 decodes to 1, 4, 9, 12
	d := Drum{Bass: Sample{Len: 1, Data: []byte{0x4A}}}
	v := NewVoice(NewSequenceSource(0))
	v.Trigger(d)

	blocks := make([]Block, 6)
	for i := range blocks {
		v.DecodeBlock(&blocks[i])
		if i == 3 {
			assert.Equal(t, Idle, v.State())
		}
	}

	assert.Equal(t, Block{0, 0, 0, 0, 0, 0, 0, 0}, blocks[0])
	assert.Equal(t, Block{1, 1, 1, 1, 2, 2, 3, 3}, blocks[1])
	assert.Equal(t, Block{4, 4, 5, 5, 6, 6, 7, 8}, blocks[2])
	assert.Equal(t, Block{9, 9, 9, 9, 10, 10, 11, 11}, blocks[3])
	assert.Equal(t, Block{}, blocks[4])
	assert.Equal(t, Block{}, blocks[5])
}

func TestVoiceBassTwoBytes(t *testing.T) {
	d := Drum{Bass: Sample{Len: 2, Data: []byte{0x4A, 0x0F}}}
	v := NewVoice(NewSequenceSource(0))
	v.Trigger(d)

	bassBlocks := 0
	var b Block
	for v.BassActive() {
		v.DecodeBlock(&b)
		bassBlocks++
	}
	assert.Equal(t, 8, bassBlocks)
}

func TestVoiceSplineInterpolation(t *testing.T) {
	d := Drum{Bass: Sample{Len: 1, Data: []byte{0x4A}}}
	v := NewVoice(NewSequenceSource(0))
	v.SetInterpolation(Spline)
	v.Trigger(d)
	assert.Equal(t, Spline, v.Interpolation())

	var b0, b1 Block
	v.DecodeBlock(&b0)
	v.DecodeBlock(&b1)

	// points (0, 1, 4): ramps 0->1 = zeros and 1->4 = 1,1,1,1,2,2,3,3
	assert.Equal(t, Block{}, b0)
	assert.Equal(t, Block{0, 0, 0, 0, 1, 1, 1, 1}, b1)
}

func TestVoiceAdditive(t *testing.T) {
	other := Drum{
		Treble: Envelope{Increment: 0x0100, Initial: 0x0040},
		Filter: Filter{A2: 20, A3: 90, B1: 127, B2: -64, B3: 10},
		Bass:   Sample{Len: 3, Data: []byte{0x12, 0x34, 0x56}},
	}
	const blocks = 200

	a := RenderDrum(testDrum, blocks, NewRandSource(1))
	b := RenderDrum(other, blocks, NewRandSource(2))

	mixed := make([]int16, blocks*BlockSize)
	va := NewVoice(NewRandSource(1))
	va.Trigger(testDrum)
	va.Render(mixed)
	vb := NewVoice(NewRandSource(2))
	vb.Trigger(other)
	vb.Render(mixed)

	for i := range mixed {
		require.Equal(t, a[i]+b[i], mixed[i], "sample %d", i)
	}
}

func TestVoiceDeterministic(t *testing.T) {
	a := RenderDrum(testDrum, 100, NewRandSource(42))
	b := RenderDrum(testDrum, 100, NewRandSource(42))
	assert.Equal(t, a, b)

	c := RenderDrum(testDrum, 100, NewRandSource(43))
	assert.NotEqual(t, a, c, "treble noise depends on the seed")
}

func TestVoiceRetrigger(t *testing.T) {
	v := NewVoice(NewRandSource(5))
	v.Trigger(testDrum)
	buf := make([]int16, 20*BlockSize)
	v.Render(buf)

	v.SetSource(NewRandSource(9))
	v.Trigger(testDrum)
	again := make([]int16, 20*BlockSize)
	v.Render(again)

	assert.Equal(t, RenderDrum(testDrum, 20, NewRandSource(9)), again)
}

func TestVoiceTrebleScaling(t *testing.T) {
	// a pure gain filter with the amplitude clamped to 0xFF
	d := Drum{
		Treble: Envelope{Increment: 1, Initial: 0x0400},
		Filter: Filter{B1: 127},
	}
	v := NewVoice(NewSequenceSource(0x7F, 0x80))
	v.Trigger(d)

	var b Block
	v.DecodeBlock(&b)

	// 127*127>>8 = 63 then 63*255>>8 = 62; 127*-128>>8 = -64 then -64*255>>8 = -64
	assert.Equal(t, Block{62, -64, 62, -64, 62, -64, 62, -64}, b)
}

func TestZeroVoiceUsesGlobalSource(t *testing.T) {
	var v Voice
	v.Trigger(Drum{Treble: Envelope{Initial: 0x10, Increment: 0x100}, Filter: Filter{B1: 127}})

	var b Block
	require.NotPanics(t, func() { v.DecodeBlock(&b) })
	assert.True(t, v.TrebleActive())

	for i := 1; i < 16; i++ {
		v.DecodeBlock(&b)
	}
	assert.False(t, v.Active())
}
