// Package trips holds the trip catalog: which source files make up each
// trip and how they are merged.
package trips

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

type Mode string

const (
	// ModeSingle serves the one source file as is.
	ModeSingle Mode = "single"
	// ModeFlatten concatenates all segments into one track.
	ModeFlatten Mode = "flatten"
	// ModeDistinctTracks keeps one track per source track.
	ModeDistinctTracks Mode = "distinct-tracks"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeSingle, ModeFlatten, ModeDistinctTracks:
		return true
	}
	return false
}

var (
	ErrUnknownTrip    = errors.New("unknown trip")
	ErrInvalidCatalog = errors.New("invalid trip catalog")
)

type Descriptor struct {
	ID          string   `mapstructure:"id" yaml:"id"`
	Name        string   `mapstructure:"name" yaml:"name"`
	Description string   `mapstructure:"description" yaml:"description,omitempty"`
	Mode        Mode     `mapstructure:"mode" yaml:"mode,omitempty"`
	Files       []string `mapstructure:"files" yaml:"files"`
}

// Summary is the public listing of a trip.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Registry struct {
	trips []Descriptor
	byID  map[string]int
}

// New validates the descriptors and returns a registry listing them in
// the given order. An empty mode defaults to single for one file and to
// flatten for several.
func New(descs []Descriptor) (*Registry, error) {
	r := &Registry{
		trips: make([]Descriptor, 0, len(descs)),
		byID:  make(map[string]int, len(descs)),
	}
	for i, d := range descs {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: trip %d has no id", ErrInvalidCatalog, i)
		}
		if _, ok := r.byID[d.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate trip id %q", ErrInvalidCatalog, d.ID)
		}
		if len(d.Files) == 0 {
			return nil, fmt.Errorf("%w: trip %q has no files", ErrInvalidCatalog, d.ID)
		}
		for _, f := range d.Files {
			if !ValidFileName(f) {
				return nil, fmt.Errorf("%w: trip %q: bad file name %q", ErrInvalidCatalog, d.ID, f)
			}
		}
		if d.Mode == "" {
			d.Mode = ModeFlatten
			if len(d.Files) == 1 {
				d.Mode = ModeSingle
			}
		}
		if !d.Mode.Valid() {
			return nil, fmt.Errorf("%w: trip %q: unknown mode %q", ErrInvalidCatalog, d.ID, d.Mode)
		}
		if d.Mode == ModeSingle && len(d.Files) != 1 {
			return nil, fmt.Errorf("%w: trip %q: mode single needs exactly one file", ErrInvalidCatalog, d.ID)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		d.Files = append([]string(nil), d.Files...)
		r.byID[d.ID] = len(r.trips)
		r.trips = append(r.trips, d)
	}
	return r, nil
}

// ValidFileName reports whether name refers to a file directly inside
// the data directory.
func ValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return false
	}
	return true
}

func (r *Registry) Lookup(id string) (Descriptor, error) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownTrip, id)
	}
	d := r.trips[i]
	d.Files = append([]string(nil), d.Files...)
	return d, nil
}

// List returns the summaries of all trips in catalog order.
func (r *Registry) List() []Summary {
	return lo.Map(r.trips, func(d Descriptor, _ int) Summary {
		return Summary{ID: d.ID, Name: d.Name, Description: d.Description}
	})
}

func (r *Registry) Len() int {
	return len(r.trips)
}
