package example

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"calmh.dev/gpxplorer/internal/gpx"
	"calmh.dev/gpxplorer/internal/trips"
)

const fileName = "example.gpx"

type CLI struct {
	DataDir string `default:"data" help:"Directory to write the example track to" placeholder:"DIR" env:"GPXPLORER_DATA_DIR"`
	Catalog string `default:"trips.yaml" help:"Catalog file to write" placeholder:"FILE" env:"GPXPLORER_CATALOG"`
	Force   bool   `help:"Overwrite existing files"`
}

func (cli *CLI) Run(_ context.Context, logger *slog.Logger) error {
	logger = logger.With("module", "example")

	if err := os.MkdirAll(cli.DataDir, 0o755); err != nil {
		return err
	}

	track := filepath.Join(cli.DataDir, fileName)
	for _, name := range []string{track, cli.Catalog} {
		if _, err := os.Stat(name); err == nil && !cli.Force {
			return fmt.Errorf("%s: already exists (use --force to overwrite)", name)
		}
	}

	data, err := gpx.Serialize(Document())
	if err != nil {
		return err
	}
	if err := os.WriteFile(track, data, 0o644); err != nil {
		return err
	}
	logger.Info("Wrote example track", "file", track)

	if err := trips.Save(cli.Catalog, Catalog()); err != nil {
		return err
	}
	logger.Info("Wrote trip catalog", "file", cli.Catalog)
	return nil
}

// Document is a short loop in San Francisco.
func Document() *gpx.Document {
	return &gpx.Document{Tracks: []gpx.Track{{
		Name: "Example Loop",
		Segments: []gpx.Segment{{Points: []gpx.Point{
			{Lat: 37.7749, Lon: -122.4194, Ele: gpx.Elevation(10)},
			{Lat: 37.7750, Lon: -122.4195, Ele: gpx.Elevation(12)},
			{Lat: 37.7751, Lon: -122.4196, Ele: gpx.Elevation(15)},
		}}},
	}}}
}

func Catalog() []trips.Descriptor {
	return []trips.Descriptor{{
		ID:          "example-trip",
		Name:        "Classic Trek",
		Description: "A beautiful scenic route.",
		Mode:        trips.ModeSingle,
		Files:       []string{fileName},
	}}
}
