//go:build gui
// +build gui

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

// Settings are the render options shared by playback and export
type Settings struct {
	SampleRate    int
	Seconds       int
	BitsPerSample int
	Interpolation drumsynth.Interpolation
	Seed          int64
	Volume        float64
}

func defaultSettings() Settings {
	return Settings{
		SampleRate:    drumsynth.DefaultSampleRate,
		Seconds:       drumsynth.DefaultSeconds,
		BitsPerSample: 16,
		Interpolation: drumsynth.Linear,
		Volume:        1.0,
	}
}

// Blocks returns the render length in blocks
func (s Settings) Blocks() int {
	return drumsynth.BlocksFor(s.SampleRate, s.Seconds)
}

// Source returns a fresh noise source. A zero seed uses the process source,
// so repeated hits sound different.
func (s Settings) Source() drumsynth.ByteSource {
	if s.Seed == 0 {
		return drumsynth.GlobalSource()
	}
	return drumsynth.NewRandSource(s.Seed)
}

// Render renders one drum with the current options
func (s Settings) Render(d drumsynth.Drum) []int16 {
	return drumsynth.RenderDrumWith(d, s.Blocks(), s.Source(), s.Interpolation)
}

// ForDevice returns the settings used for audition. Once the audio device
// runs, playback stays at its rate; the rate option then applies to export.
func (s Settings) ForDevice(deviceRate int, running bool) Settings {
	if running && deviceRate > 0 {
		s.SampleRate = deviceRate
	}
	return s
}

// DurationMs is the clip length in milliseconds
func (s Settings) DurationMs() uint32 {
	return uint32(s.Blocks() * drumsynth.BlockSize * 1000 / s.SampleRate)
}

func parseSeed(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	seed, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", text)
	}
	return seed, nil
}

func parseRate(text string) (int, error) {
	rate, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || rate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %q", text)
	}
	return rate, nil
}

// drumInfo holds the lines shown in the drum card
type drumInfo struct {
	Bass   string
	Treble string
	Filter string
}

func describeDrum(d drumsynth.Drum, sampleRate int) drumInfo {
	var info drumInfo

	if d.Bass.Empty() {
		info.Bass = "Bass: none"
	} else {
		ms := uint32(4 * int(d.Bass.Len) * drumsynth.BlockSize * 1000 / sampleRate)
		info.Bass = fmt.Sprintf("Bass: %d bytes, %s", d.Bass.Len, formatTime(ms))
	}

	switch n := d.Treble.Blocks(); {
	case n < 0:
		info.Treble = "Treble: no decay"
	case n == 0:
		info.Treble = "Treble: none"
	default:
		ms := uint32(n * drumsynth.BlockSize * 1000 / sampleRate)
		info.Treble = fmt.Sprintf("Treble: start 0x%04x, step 0x%04x, %s",
			d.Treble.Initial, d.Treble.Increment, formatTime(ms))
	}

	f := d.Filter
	info.Filter = fmt.Sprintf("Filter: a2=%d a3=%d b1=%d b2=%d b3=%d", f.A2, f.A3, f.B1, f.B2, f.B3)
	return info
}

// formatTime renders milliseconds as s.mmm
func formatTime(ms uint32) string {
	return fmt.Sprintf("%d.%03ds", ms/1000, ms%1000)
}
