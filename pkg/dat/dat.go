// Package dat reads and writes the compact voice record a target system
// loads straight into its drum structure.
package dat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

// HeaderSize is envelope (4) + filter (5) + length (2) + reserved (2)
const HeaderSize = 13

// Ext is the file extension used by the tools
const Ext = ".dat"

var (
	ErrShortHeader  = errors.New("dat: record shorter than header")
	ErrShortData    = errors.New("dat: sample data truncated")
	ErrReserved     = errors.New("dat: reserved field is not zero")
	ErrSampleLength = errors.New("dat: sample length exceeds data")
)

// header mirrors the on-disk layout, little-endian, no padding
type header struct {
	Increment uint16
	Initial   uint16
	A2, A3    int8
	B1, B2    int8
	B3        int8
	Len       uint16
	Reserved  uint16
}

// Encode writes d as one record
func Encode(w io.Writer, d drumsynth.Drum) error {
	n := int(d.Bass.Len)
	if d.Bass.Data == nil {
		n = 0
	}
	if n > len(d.Bass.Data) {
		return fmt.Errorf("%w: len %d, have %d bytes", ErrSampleLength, n, len(d.Bass.Data))
	}

	h := header{
		Increment: d.Treble.Increment,
		Initial:   d.Treble.Initial,
		A2:        d.Filter.A2,
		A3:        d.Filter.A3,
		B1:        d.Filter.B1,
		B2:        d.Filter.B2,
		B3:        d.Filter.B3,
		Len:       uint16(n),
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(d.Bass.Data[:n]); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	return nil
}

// Marshal returns the record bytes for d
func Marshal(d drumsynth.Drum) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads one record. A zero length yields a drum without bass.
func Decode(r io.Reader) (drumsynth.Drum, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return drumsynth.Drum{}, ErrShortHeader
		}
		return drumsynth.Drum{}, fmt.Errorf("failed to read header: %w", err)
	}
	if h.Reserved != 0 {
		return drumsynth.Drum{}, fmt.Errorf("%w: 0x%04X", ErrReserved, h.Reserved)
	}

	d := drumsynth.Drum{
		Treble: drumsynth.Envelope{Increment: h.Increment, Initial: h.Initial},
		Filter: drumsynth.Filter{A2: h.A2, A3: h.A3, B1: h.B1, B2: h.B2, B3: h.B3},
	}
	if h.Len == 0 {
		return d, nil
	}

	data := make([]byte, h.Len)
	if _, err := io.ReadFull(r, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return drumsynth.Drum{}, fmt.Errorf("%w: want %d bytes", ErrShortData, h.Len)
		}
		return drumsynth.Drum{}, fmt.Errorf("failed to read sample: %w", err)
	}
	d.Bass = drumsynth.Sample{Len: h.Len, Data: data}
	return d, nil
}

// Unmarshal decodes a record held in memory. Trailing bytes are ignored.
func Unmarshal(b []byte) (drumsynth.Drum, error) {
	return Decode(bytes.NewReader(b))
}

// WriteFile writes d to path
func WriteFile(path string, d drumsynth.Drum) error {
	b, err := Marshal(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the record stored at path
func ReadFile(path string) (drumsynth.Drum, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return drumsynth.Drum{}, fmt.Errorf("failed to read file: %w", err)
	}
	d, err := Unmarshal(b)
	if err != nil {
		return drumsynth.Drum{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
