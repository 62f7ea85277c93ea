package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/drumsynth/pkg/dat"
	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()
	require.NotZero(t, c.Size())

	seen := map[string]bool{}
	for _, e := range c.Entries {
		assert.False(t, seen[e.Name], "duplicate %s", e.Name)
		seen[e.Name] = true
		assert.LessOrEqual(t, int(e.Drum.Bass.Len), len(e.Drum.Bass.Data), e.Name)
	}

	kick, ok := c.Find("kick")
	require.True(t, ok)
	assert.False(t, kick.Drum.Bass.Empty())

	hat, ok := c.Find("closed_hat")
	require.True(t, ok)
	assert.True(t, hat.Drum.Bass.Empty(), "hats are treble only")

	boom, ok := c.Find("boom")
	require.True(t, ok)
	assert.Zero(t, boom.Drum.Treble.Initial, "boom is bass only")
}

func TestBuiltinRendersFinite(t *testing.T) {
	blocks := drumsynth.BlocksFor(drumsynth.DefaultSampleRate, drumsynth.DefaultSeconds)
	for _, e := range Builtin().Entries {
		v := drumsynth.NewVoice(drumsynth.NewRandSource(1))
		v.Trigger(e.Drum)
		var b drumsynth.Block
		for i := 0; i < blocks; i++ {
			v.DecodeBlock(&b)
		}
		assert.False(t, v.Active(), "%s still sounding after %d blocks", e.Name, blocks)
	}
}

func TestBuiltinIsACopy(t *testing.T) {
	c := Builtin()
	c.Entries[0].Name = "changed"
	assert.Equal(t, "kick", Builtin().Entries[0].Name)
}

func TestLookup(t *testing.T) {
	c := Builtin()
	_, err := c.Lookup("cowbell")
	assert.True(t, errors.Is(err, ErrNotFound))

	e, err := c.Lookup("snare")
	require.NoError(t, err)
	assert.Equal(t, "snare", e.Name)

	_, err = c.Get(c.Size())
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	c := Builtin()
	toms, err := c.Filter("tom_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"tom_low", "tom_high"}, toms.Names())

	_, err = c.Filter("[")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	c := New("test")
	c.Add("b", drumsynth.Drum{Bass: drumsynth.Sample{Len: 1, Data: []byte{1}}})
	c.Add("c", drumsynth.Drum{})
	c.Add("a", drumsynth.Drum{Bass: drumsynth.Sample{Len: 3, Data: []byte{1, 2, 3}}})

	c.Sort(SortByName)
	assert.Equal(t, []string{"a", "b", "c"}, c.Names())

	c.Sort(SortByLength)
	assert.Equal(t, []string{"c", "b", "a"}, c.Names())
}

func TestDirRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := Builtin()
	require.NoError(t, src.WriteDir(dir))

	// unrelated files are skipped
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0644))

	c, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, src.Size(), c.Size())

	for _, e := range src.Entries {
		got, ok := c.Find(e.Name)
		require.True(t, ok, e.Name)
		assert.Equal(t, e.Drum.Treble, got.Drum.Treble)
		assert.Equal(t, e.Drum.Filter, got.Drum.Filter)
		assert.Equal(t, e.Drum.Bass.Len, got.Drum.Bass.Len)
		if !e.Drum.Bass.Empty() {
			assert.Equal(t, e.Drum.Bass.Data, got.Drum.Bass.Data)
		}
	}

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, c.Names(), loaded.Names())
}

func TestLoadDirBadRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.dat"), []byte{1, 2, 3}, 0644))

	_, err := LoadDir(dir)
	assert.True(t, errors.Is(err, dat.ErrShortHeader))
}

func TestLoadSingleDat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snare.dat")
	e, _ := Builtin().Find("snare")
	require.NoError(t, dat.WriteFile(path, e.Drum))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"snare"}, c.Names())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "kit.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kit.json")
	src := Builtin()
	require.NoError(t, src.Save(path))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "builtin", c.Name)
	require.Equal(t, src.Names(), c.Names())

	for i, e := range src.Entries {
		got := c.Entries[i].Drum
		assert.Equal(t, e.Drum.Treble, got.Treble)
		assert.Equal(t, e.Drum.Filter, got.Filter)
		assert.Equal(t, e.Drum.Bass.Empty(), got.Bass.Empty())
		if !e.Drum.Bass.Empty() {
			assert.Equal(t, e.Drum.Bass, got.Bass)
		}
	}
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"syntax", `{"name": `},
		{"missing name", `{"name": "k", "drums": [{"initial": 1}]}`},
		{"bad hex", `{"name": "k", "drums": [{"name": "x", "sample": "zz"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "kit.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.json), 0644))
			_, err := LoadManifest(path)
			assert.Error(t, err)
		})
	}
}
