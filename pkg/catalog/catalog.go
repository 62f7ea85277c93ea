// Package catalog holds named drum definitions: the built-in kit, kits
// loaded from a folder of .dat records, and JSON kit manifests.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olivierh59500/drumsynth/pkg/dat"
	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

var ErrNotFound = errors.New("drum not found")

// Entry is one named drum
type Entry struct {
	Name string
	Drum drumsynth.Drum
}

// Catalog is an ordered list of drums
type Catalog struct {
	Name    string
	Entries []Entry
}

// New creates an empty catalog
func New(name string) *Catalog {
	return &Catalog{
		Name:    name,
		Entries: make([]Entry, 0),
	}
}

// Add appends a drum
func (c *Catalog) Add(name string, d drumsynth.Drum) {
	c.Entries = append(c.Entries, Entry{Name: name, Drum: d})
}

// Size returns the number of drums
func (c *Catalog) Size() int {
	return len(c.Entries)
}

// Get returns the entry at index
func (c *Catalog) Get(index int) (Entry, error) {
	if index < 0 || index >= len(c.Entries) {
		return Entry{}, fmt.Errorf("index out of range")
	}
	return c.Entries[index], nil
}

// Find looks a drum up by name
func (c *Catalog) Find(name string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup is Find returning ErrNotFound
func (c *Catalog) Lookup(name string) (Entry, error) {
	e, ok := c.Find(name)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, nil
}

// Names returns the drum names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		names[i] = e.Name
	}
	return names
}

// Filter returns the drums whose name matches a path.Match pattern
func (c *Catalog) Filter(pattern string) (*Catalog, error) {
	out := New(c.Name)
	for _, e := range c.Entries {
		ok, err := path.Match(pattern, e.Name)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			out.Entries = append(out.Entries, e)
		}
	}
	return out, nil
}

// SortBy selects the sort key
type SortBy int

const (
	SortByName SortBy = iota
	SortByLength
)

// Sort orders the catalog. SortByLength sorts on the encoded bass length.
func (c *Catalog) Sort(by SortBy) {
	sort.SliceStable(c.Entries, func(i, j int) bool {
		switch by {
		case SortByLength:
			return c.Entries[i].Drum.Bass.Len < c.Entries[j].Drum.Bass.Len
		default:
			return c.Entries[i].Name < c.Entries[j].Name
		}
	})
}

// LoadDir builds a catalog from every .dat file in dir, named after the
// file. Entries are sorted by name.
func LoadDir(dir string) (*Catalog, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read kit folder: %w", err)
	}

	c := New(filepath.Base(dir))
	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), dat.Ext) {
			continue
		}
		d, err := dat.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}
		c.Add(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())), d)
	}
	c.Sort(SortByName)
	return c, nil
}

// Load opens a kit folder, a JSON manifest or a single .dat file
func Load(p string) (*Catalog, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("kit not found: %w", err)
	}
	if info.IsDir() {
		return LoadDir(p)
	}

	switch strings.ToLower(filepath.Ext(p)) {
	case ".json":
		return LoadManifest(p)
	case dat.Ext:
		d, err := dat.ReadFile(p)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		c := New(name)
		c.Add(name, d)
		return c, nil
	}
	return nil, fmt.Errorf("unsupported kit file: %s", p)
}

// WriteDir stores every drum as <name>.dat in dir
func (c *Catalog) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, e := range c.Entries {
		if err := dat.WriteFile(filepath.Join(dir, e.Name+dat.Ext), e.Drum); err != nil {
			return err
		}
	}
	return nil
}
