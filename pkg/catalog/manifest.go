package catalog

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

// manifestDrum is the JSON form of one entry
type manifestDrum struct {
	Name      string  `json:"name"`
	Increment uint16  `json:"increment"`
	Initial   uint16  `json:"initial"`
	Filter    [5]int8 `json:"filter"`           // a2, a3, b1, b2, b3
	Sample    string  `json:"sample,omitempty"` // hex
}

type manifest struct {
	Name  string         `json:"name"`
	Drums []manifestDrum `json:"drums"`
}

// MarshalJSON encodes the catalog as a kit manifest
func (c *Catalog) MarshalJSON() ([]byte, error) {
	m := manifest{Name: c.Name, Drums: make([]manifestDrum, 0, len(c.Entries))}
	for _, e := range c.Entries {
		d := e.Drum
		md := manifestDrum{
			Name:      e.Name,
			Increment: d.Treble.Increment,
			Initial:   d.Treble.Initial,
			Filter:    [5]int8{d.Filter.A2, d.Filter.A3, d.Filter.B1, d.Filter.B2, d.Filter.B3},
		}
		if !d.Bass.Empty() {
			n := int(d.Bass.Len)
			if n > len(d.Bass.Data) {
				n = len(d.Bass.Data)
			}
			md.Sample = hex.EncodeToString(d.Bass.Data[:n])
		}
		m.Drums = append(m.Drums, md)
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a kit manifest
func (c *Catalog) UnmarshalJSON(b []byte) error {
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	c.Name = m.Name
	c.Entries = make([]Entry, 0, len(m.Drums))
	for _, md := range m.Drums {
		if md.Name == "" {
			return fmt.Errorf("manifest entry without name")
		}
		d := drumsynth.Drum{
			Treble: drumsynth.Envelope{Increment: md.Increment, Initial: md.Initial},
			Filter: drumsynth.Filter{
				A2: md.Filter[0], A3: md.Filter[1],
				B1: md.Filter[2], B2: md.Filter[3], B3: md.Filter[4],
			},
		}
		if md.Sample != "" {
			data, err := hex.DecodeString(md.Sample)
			if err != nil {
				return fmt.Errorf("drum %s: bad sample: %w", md.Name, err)
			}
			if len(data) > 0xFFFF {
				return fmt.Errorf("drum %s: sample too long (%d bytes)", md.Name, len(data))
			}
			d.Bass = drumsynth.Sample{Len: uint16(len(data)), Data: data}
		}
		c.Add(md.Name, d)
	}
	return nil
}

// Save writes the catalog as an indented JSON manifest
func (c *Catalog) Save(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadManifest reads a JSON manifest
func LoadManifest(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, err)
	}
	return &c, nil
}
