package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"calmh.dev/gpxplorer/internal/aggregate"
	"calmh.dev/gpxplorer/internal/stats"
	"calmh.dev/gpxplorer/internal/trips"
	"github.com/c2h5oh/datasize"
)

type CLI struct {
	Files []string `arg:"" optional:"" type:"existingfile" help:"GPX files to summarize as one trip"`
	Mode  string   `enum:",single,flatten,distinct-tracks" default:"" help:"Merge mode for the given files (single, flatten, distinct-tracks)"`

	Trip        string            `help:"Summarize this trip from the catalog instead of files" placeholder:"ID"`
	Catalog     string            `default:"trips.yaml" help:"Trip catalog file" placeholder:"FILE" env:"GPXPLORER_CATALOG"`
	DataDir     string            `default:"data" help:"Directory holding the GPX source files" placeholder:"DIR" env:"GPXPLORER_DATA_DIR"`
	MaxFileSize datasize.ByteSize `default:"64MB" help:"Largest GPX source file that will be read"`

	StoppedSpeed float64 `default:"1.0" help:"Speed below which time counts as stopped (km/h)"`
	JSON         bool    `help:"Print statistics and profile as JSON"`
}

func (cli *CLI) Run(ctx context.Context, logger *slog.Logger) error {
	return cli.run(ctx, logger, os.Stdout)
}

func (cli *CLI) run(ctx context.Context, logger *slog.Logger, w io.Writer) error {
	d, loader, err := cli.trip()
	if err != nil {
		return err
	}

	doc, err := aggregate.New(loader, logger).Aggregate(ctx, d)
	if err != nil {
		return err
	}

	opts := stats.DefaultOptions()
	opts.StoppedSpeedKmh = cli.StoppedSpeed
	res := stats.Compute(doc, opts)

	if cli.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	summarize(w, d.Name, doc.NumSegments(), res.Stats)
	return nil
}

func (cli *CLI) trip() (trips.Descriptor, aggregate.Loader, error) {
	if cli.Trip != "" {
		reg, err := trips.Load(cli.Catalog)
		if err != nil {
			return trips.Descriptor{}, nil, err
		}
		d, err := reg.Lookup(cli.Trip)
		if err != nil {
			return trips.Descriptor{}, nil, fmt.Errorf("%q: %w", cli.Trip, err)
		}
		return d, aggregate.DirLoader{Dir: cli.DataDir, MaxSize: cli.MaxFileSize}, nil
	}

	if len(cli.Files) == 0 {
		return trips.Descriptor{}, nil, errors.New("no files given")
	}

	files := make(aggregate.MapLoader, len(cli.Files))
	names := make([]string, 0, len(cli.Files))
	for _, path := range cli.Files {
		name := filepath.Base(path)
		if _, ok := files[name]; ok {
			return trips.Descriptor{}, nil, fmt.Errorf("%s: duplicate file name", name)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return trips.Descriptor{}, nil, err
		}
		files[name] = data
		names = append(names, name)
	}

	reg, err := trips.New([]trips.Descriptor{{
		ID:    "files",
		Name:  names[0],
		Mode:  trips.Mode(cli.Mode),
		Files: names,
	}})
	if err != nil {
		return trips.Descriptor{}, nil, err
	}
	d, err := reg.Lookup("files")
	return d, files, err
}

func summarize(w io.Writer, name string, segments int, s stats.Stats) {
	fmt.Fprintf(w, "Trip: %s\n", name)
	fmt.Fprintf(w, "Points: %d in %d segments\n", s.Points, segments)
	fmt.Fprintf(w, "Distance: %.2f km\n", s.DistanceKm)
	fmt.Fprintf(w, "Elevation: +%d m / -%d m", s.ElevationGainM, s.ElevationLossM)
	if s.MinElevationM != nil && s.MaxElevationM != nil {
		fmt.Fprintf(w, " (min %.1f m, max %.1f m)", *s.MinElevationM, *s.MaxElevationM)
	}
	fmt.Fprintln(w)

	moving := time.Duration(s.MovingTimeS) * time.Second
	stopped := time.Duration(s.StoppedTimeS) * time.Second
	fmt.Fprintf(w, "Moving: %s, stopped: %s\n", moving, stopped)
	fmt.Fprintf(w, "Speed: %.1f km/h avg, %.1f km/h max\n", s.AvgSpeedKmh, s.MaxSpeedKmh)
}
