package trips

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	r, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	list := r.List()
	require.Equal(t, []Summary{
		{ID: "example-trip", Name: "Classic Trek", Description: "A beautiful scenic route."},
		{ID: "alps-week", Name: "Alps Week", Description: "Five days across the passes."},
		{ID: "coast", Name: "Coast Ride"},
	}, list)

	d, err := r.Lookup("alps-week")
	require.NoError(t, err)
	assert.Equal(t, ModeDistinctTracks, d.Mode)
	assert.Equal(t, []string{"day1.gpx", "day2.gpx", "day3.gpx"}, d.Files)

	// Modes default from the file count.
	d, err = r.Lookup("example-trip")
	require.NoError(t, err)
	assert.Equal(t, ModeSingle, d.Mode)
	d, err = r.Lookup("coast")
	require.NoError(t, err)
	assert.Equal(t, ModeFlatten, d.Mode)
}

func TestLoadJSON(t *testing.T) {
	r, err := Load("testdata/catalog.json")
	require.NoError(t, err)
	d, err := r.Lookup("loop")
	require.NoError(t, err)
	assert.Equal(t, ModeFlatten, d.Mode)
	assert.Equal(t, []string{"a.gpx", "b.gpx"}, d.Files)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)

	_, err = Load("testdata/duplicate.yaml")
	require.True(t, errors.Is(err, ErrInvalidCatalog), "got %v", err)
}

func TestLookupUnknown(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	_, err = r.Lookup("nope")
	require.True(t, errors.Is(err, ErrUnknownTrip))
	require.Empty(t, r.List())
}

func TestLookupReturnsCopy(t *testing.T) {
	r, err := New([]Descriptor{{ID: "a", Files: []string{"a.gpx"}}})
	require.NoError(t, err)

	d, _ := r.Lookup("a")
	d.Files[0] = "changed.gpx"

	d, _ = r.Lookup("a")
	require.Equal(t, "a.gpx", d.Files[0])
	require.Equal(t, "a", d.Name, "name defaults to the id")
}

func TestNewValidation(t *testing.T) {
	cases := map[string]Descriptor{
		"no id":          {Files: []string{"a.gpx"}},
		"no files":       {ID: "a"},
		"bad mode":       {ID: "a", Mode: "zigzag", Files: []string{"a.gpx"}},
		"single many":    {ID: "a", Mode: ModeSingle, Files: []string{"a.gpx", "b.gpx"}},
		"subdirectory":   {ID: "a", Files: []string{"sub/a.gpx"}},
		"parent":         {ID: "a", Files: []string{".."}},
		"backslash":      {ID: "a", Files: []string{`..\a.gpx`}},
		"empty filename": {ID: "a", Files: []string{""}},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New([]Descriptor{d})
			require.True(t, errors.Is(err, ErrInvalidCatalog), "got %v", err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "trips.yaml")
	descs := []Descriptor{
		{ID: "one", Name: "One", Description: "first", Mode: ModeSingle, Files: []string{"one.gpx"}},
		{ID: "two", Name: "Two", Mode: ModeDistinctTracks, Files: []string{"a.gpx", "b.gpx"}},
	}
	require.NoError(t, Save(file, descs))

	r, err := Load(file)
	require.NoError(t, err)
	for _, want := range descs {
		got, err := r.Lookup(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
