// Package aggregate merges the source files of a trip into one document.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"calmh.dev/gpxplorer/internal/gpx"
	"calmh.dev/gpxplorer/internal/trips"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

var (
	aggregations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxplorer",
		Subsystem: "aggregate",
		Name:      "trips_total",
	}, []string{"mode"})
	filesLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gpxplorer",
		Subsystem: "aggregate",
		Name:      "files_loaded_total",
	})
	filesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gpxplorer",
		Subsystem: "aggregate",
		Name:      "files_skipped_total",
	})
	filesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gpxplorer",
		Subsystem: "aggregate",
		Name:      "files_malformed_total",
	})
)

// Maximum number of source files read in parallel for one trip.
const loadConcurrency = 4

type Aggregator struct {
	loader Loader
	logger *slog.Logger
}

func New(loader Loader, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		loader: loader,
		logger: logger.With("module", "aggregate"),
	}
}

func (a *Aggregator) String() string {
	return fmt.Sprintf("aggregator(%v)@%p", a.loader, a)
}

// Aggregate loads and merges the files of the trip according to its mode.
// Files that cannot be loaded are skipped; a file that loads but does not
// parse fails the whole trip with an error wrapping gpx.ErrMalformed.
func (a *Aggregator) Aggregate(ctx context.Context, d trips.Descriptor) (*gpx.Document, error) {
	aggregations.WithLabelValues(string(d.Mode)).Inc()

	docs, err := a.load(ctx, d)
	if err != nil {
		return nil, err
	}

	out := &gpx.Document{Name: d.Name}
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		switch d.Mode {
		case trips.ModeFlatten:
			if len(out.Tracks) == 0 {
				out.Tracks = append(out.Tracks, gpx.Track{Name: d.Name})
			}
			for _, trk := range doc.Tracks {
				out.Tracks[0].Segments = append(out.Tracks[0].Segments, trk.Segments...)
			}

		case trips.ModeDistinctTracks:
			for _, trk := range doc.Tracks {
				name := trk.Name
				if name == "" {
					name = baseName(d.Files[i])
				}
				out.Tracks = append(out.Tracks, gpx.Track{Name: name, Segments: trk.Segments})
			}

		default:
			out.Tracks = append(out.Tracks, doc.Tracks...)
		}
	}

	a.logger.Debug("Aggregated trip", "trip", d.ID, "mode", d.Mode, "files", len(d.Files), "tracks", len(out.Tracks), "points", out.NumPoints())
	return out, nil
}

// load returns one parsed document per file, in file order, with nil for
// files that could not be loaded.
func (a *Aggregator) load(ctx context.Context, d trips.Descriptor) ([]*gpx.Document, error) {
	docs := make([]*gpx.Document, len(d.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, name := range d.Files {
		i, name := i, name
		g.Go(func() error {
			data, err := a.loader.Load(gctx, name)
			if err != nil {
				if cerr := gctx.Err(); cerr != nil {
					// Another file failed or the request went away.
					return cerr
				}
				filesSkipped.Inc()
				a.logger.Debug("Skipping trip file", "trip", d.ID, "file", name, "error", err)
				return nil
			}
			doc, err := gpx.ParseBytes(data)
			if err != nil {
				filesMalformed.Inc()
				return fmt.Errorf("trip %q: file %q: %w", d.ID, name, err)
			}
			filesLoaded.Inc()
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func baseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Aggregate merges the trip using the given loader, logging to the
// default logger.
func Aggregate(ctx context.Context, d trips.Descriptor, loader Loader) (*gpx.Document, error) {
	return New(loader, slog.Default()).Aggregate(ctx, d)
}
