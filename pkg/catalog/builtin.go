package catalog

import (
	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

// Encoded bass samples of the built-in kit
var (
	kickData = []byte{
		0x4A, 0x0F, 0x0A, 0x00, 0x55, 0x01, 0xC0, 0x30, 0x0C, 0x03, 0x44, 0x11,
		0x04, 0x10, 0x41, 0x00, 0x14, 0x50, 0x05, 0x40, 0x01, 0x04, 0x10, 0x00,
		0x03, 0x0C, 0x30, 0xC0, 0x00, 0x01, 0x04, 0x10,
	}
	snareData = []byte{
		0x8A, 0x13, 0x31, 0x13, 0x44, 0x44, 0x11, 0x11, 0x04, 0x41, 0x10, 0x01,
		0x03, 0x30, 0x00, 0x0C,
	}
	tomLowData = []byte{
		0x0A, 0x05, 0x44, 0x11, 0x44, 0x11, 0x44, 0x11, 0x44, 0x11, 0x04, 0x41,
		0x04, 0x41, 0x04, 0x41, 0x10, 0x04, 0x10, 0x04, 0x10, 0x04, 0x03, 0x00,
	}
	tomHighData = []byte{
		0x0A, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x44, 0x44, 0x44, 0x44, 0x03,
		0x41, 0x41, 0x41, 0x00,
	}
	rimData = []byte{0xAA, 0x1F, 0x11, 0x11, 0x0F, 0x00}
	clapData = []byte{0x06, 0x30, 0x0C}
	boomData = []byte{
		0x02, 0x00, 0x00, 0x40, 0x00, 0x00, 0x40, 0x00, 0x00, 0x40, 0x00, 0x00,
		0x40, 0x00, 0x00, 0x40, 0x00, 0x00, 0x40, 0x00, 0x00, 0x40, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
	}
)

func sample(b []byte) drumsynth.Sample {
	return drumsynth.Sample{Len: uint16(len(b)), Data: b}
}

var builtin = []Entry{
	{
		Name: "kick",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x0800, Initial: 0x0060},
			Filter: drumsynth.Filter{A2: -100, A3: 110, B1: 48, B2: 24, B3: 0},
			Bass:   sample(kickData),
		},
	},
	{
		Name: "snare",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x0180, Initial: 0x0120},
			Filter: drumsynth.Filter{A2: -58, A3: 103, B1: 96, B2: 0, B3: -48},
			Bass:   sample(snareData),
		},
	},
	{
		Name: "closed_hat",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x0600, Initial: 0x00F0},
			Filter: drumsynth.Filter{A2: 88, A3: 92, B1: 110, B2: -110, B3: 0},
		},
	},
	{
		Name: "open_hat",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x0080, Initial: 0x00E0},
			Filter: drumsynth.Filter{A2: 88, A3: 92, B1: 110, B2: -110, B3: 0},
		},
	},
	{
		Name: "tom_low",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x0400, Initial: 0x0050},
			Filter: drumsynth.Filter{A2: -110, A3: 118, B1: 40, B2: 0, B3: -20},
			Bass:   sample(tomLowData),
		},
	},
	{
		Name: "tom_high",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x0400, Initial: 0x0060},
			Filter: drumsynth.Filter{A2: -80, A3: 112, B1: 48, B2: 0, B3: -24},
			Bass:   sample(tomHighData),
		},
	},
	{
		Name: "clap",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x0200, Initial: 0x0140},
			Filter: drumsynth.Filter{A2: -20, A3: 70, B1: 100, B2: 20, B3: -60},
			Bass:   sample(clapData),
		},
	},
	{
		Name: "rim",
		Drum: drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: 0x1000, Initial: 0x00C0},
			Filter: drumsynth.Filter{A2: 40, A3: 100, B1: 127, B2: -64, B3: 0},
			Bass:   sample(rimData),
		},
	},
	{
		Name: "boom",
		Drum: drumsynth.Drum{
			Bass: sample(boomData),
		},
	},
}

// Builtin returns the built-in kit. The entries share their sample bytes
// with the package and must not be modified.
func Builtin() *Catalog {
	entries := make([]Entry, len(builtin))
	copy(entries, builtin)
	return &Catalog{Name: "builtin", Entries: entries}
}
