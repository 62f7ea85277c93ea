package dat

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

var snare = drumsynth.Drum{
	Treble: drumsynth.Envelope{Increment: 0x0302, Initial: 0x0180},
	Filter: drumsynth.Filter{A2: -58, A3: 103, B1: 96, B2: 1, B3: -48},
	Bass:   drumsynth.Sample{Len: 3, Data: []byte{0xAA, 0xBB, 0xCC}},
}

func TestMarshalLayout(t *testing.T) {
	b, err := Marshal(snare)
	require.NoError(t, err)

	want := []byte{
		0x02, 0x03, // increment
		0x80, 0x01, // initial
		0xC6, 0x67, 0x60, 0x01, 0xD0, // a2 a3 b1 b2 b3
		0x03, 0x00, // length
		0x00, 0x00, // reserved
		0xAA, 0xBB, 0xCC,
	}
	assert.Equal(t, want, b)
	assert.Len(t, b, HeaderSize+3)
}

func TestUnmarshal(t *testing.T) {
	b, err := Marshal(snare)
	require.NoError(t, err)

	d, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, snare, d)
}

func TestEmptyBass(t *testing.T) {
	d := drumsynth.Drum{Treble: drumsynth.Envelope{Increment: 1, Initial: 2}}
	b, err := Marshal(d)
	require.NoError(t, err)
	assert.Len(t, b, HeaderSize)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, got.Bass.Empty())
	assert.Equal(t, d.Treble, got.Treble)
}

func TestEncodeOnlyLenBytes(t *testing.T) {
	d := snare
	d.Bass.Len = 2
	b, err := Marshal(d)
	require.NoError(t, err)
	assert.Len(t, b, HeaderSize+2)
}

func TestEncodeLengthTooLong(t *testing.T) {
	d := snare
	d.Bass.Len = 10
	_, err := Marshal(d)
	assert.True(t, errors.Is(err, ErrSampleLength))
}

func TestDecodeErrors(t *testing.T) {
	good, err := Marshal(snare)
	require.NoError(t, err)

	reserved := append([]byte(nil), good...)
	reserved[11] = 1

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrShortHeader},
		{"short header", good[:7], ErrShortHeader},
		{"short data", good[:len(good)-1], ErrShortData},
		{"reserved", reserved, ErrReserved},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tc.in))
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snare"+Ext)
	require.NoError(t, WriteFile(path, snare))

	d, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, snare, d)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.dat"))
	assert.Error(t, err)
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir.dat"), snare)
	assert.Error(t, err)
}
