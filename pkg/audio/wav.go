package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// WAVHeaderSize is the size of the canonical RIFF/WAVE header
const WAVHeaderSize = 44

var (
	ErrBitsPerSample = errors.New("bits per sample must be 8 or 16")
	ErrNotOpen       = errors.New("file not open")
)

// WAVHeader builds a canonical 44-byte mono or multichannel PCM header
func WAVHeader(sampleRate, channels, bitsPerSample, dataSize int) []byte {
	bytesPerSample := bitsPerSample / 8

	header := make([]byte, WAVHeaderSize)
	copy(header[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(header[4:8], uint32(dataSize+36))
	copy(header[8:12], []byte("WAVE"))
	copy(header[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(header[16:20], 16) // Format chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // Audio format (PCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*channels*bytesPerSample))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*bytesPerSample))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))
	copy(header[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	return header
}

// Unsigned8 converts one synthesized sample to 8-bit unsigned PCM
func Unsigned8(sample int16) byte {
	val := int(sample) + 128
	if val < 0 {
		val = 0
	}
	if val > 255 {
		val = 255
	}
	return byte(val)
}

// EncodePCM converts samples to little-endian PCM bytes
func EncodePCM(samples []int16, bitsPerSample int) ([]byte, error) {
	switch bitsPerSample {
	case 8:
		out := make([]byte, len(samples))
		for i, s := range samples {
			out[i] = Unsigned8(s)
		}
		return out, nil
	case 16:
		out := make([]byte, len(samples)*2)
		for i, s := range samples {
			out[i*2] = byte(s)
			out[i*2+1] = byte(s >> 8)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBitsPerSample, bitsPerSample)
}

// EncodeWAV writes a complete mono WAV stream
func EncodeWAV(w io.Writer, samples []int16, sampleRate, bitsPerSample int) error {
	data, err := EncodePCM(samples, bitsPerSample)
	if err != nil {
		return err
	}
	if _, err := w.Write(WAVHeader(sampleRate, 1, bitsPerSample, len(data))); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteWAVFile writes samples to a mono WAV file
func WriteWAVFile(filename string, samples []int16, sampleRate, bitsPerSample int) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := EncodeWAV(file, samples, sampleRate, bitsPerSample); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}

// WAVOutput writes audio to a WAV file
type WAVOutput struct {
	file          *os.File
	filename      string
	sampleRate    int
	channels      int
	bitsPerSample int
	written       int64
}

// NewWAVOutput creates a WAV output. bitsPerSample is 8 or 16.
func NewWAVOutput(filename string, bitsPerSample int) (*WAVOutput, error) {
	if bitsPerSample != 8 && bitsPerSample != 16 {
		return nil, fmt.Errorf("%w: %d", ErrBitsPerSample, bitsPerSample)
	}
	return &WAVOutput{
		filename:      filename,
		bitsPerSample: bitsPerSample,
	}, nil
}

func (w *WAVOutput) Open(sampleRate, channels, bufferSize int) error {
	w.sampleRate = sampleRate
	w.channels = channels

	file, err := os.Create(w.filename)
	if err != nil {
		return err
	}

	w.file = file
	w.written = 0

	// sizes are patched on Close
	_, err = w.file.Write(WAVHeader(sampleRate, channels, w.bitsPerSample, 0))
	return err
}

func (w *WAVOutput) Close() error {
	if w.file == nil {
		return nil
	}
	file := w.file
	w.file = nil

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return err
	}
	if _, err := file.Write(WAVHeader(w.sampleRate, w.channels, w.bitsPerSample, int(w.written))); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (w *WAVOutput) Write(samples []int16) error {
	if w.file == nil {
		return ErrNotOpen
	}

	data, err := EncodePCM(samples, w.bitsPerSample)
	if err != nil {
		return err
	}

	n, err := w.file.Write(data)
	w.written += int64(n)
	return err
}

func (w *WAVOutput) IsPlaying() bool {
	return w.file != nil
}
