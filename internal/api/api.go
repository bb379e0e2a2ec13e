// Package api serves trips, their statistics and GPX downloads over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"calmh.dev/gpxplorer/internal/aggregate"
	"calmh.dev/gpxplorer/internal/gpx"
	"calmh.dev/gpxplorer/internal/stats"
	"calmh.dev/gpxplorer/internal/trips"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/klauspost/compress/gzhttp"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeGPX     = "application/gpx+xml"
	contentTypeGeoJSON = "application/geo+json"
)

type API struct {
	registry   *trips.Registry
	aggregator *aggregate.Aggregator
	opts       stats.Options
	logger     *slog.Logger
}

func New(registry *trips.Registry, aggregator *aggregate.Aggregator, opts stats.Options, logger *slog.Logger) *API {
	return &API{
		registry:   registry,
		aggregator: aggregator,
		opts:       opts,
		logger:     logger.With("module", "api"),
	}
}

type HandlerOptions struct {
	// Origins allowed by CORS; "*" allows any origin.
	CORSOrigins []string
	// When set, requests are logged to it in combined log format.
	AccessLog io.Writer
}

// Handler returns the complete HTTP handler with routing, CORS, access
// logging and response compression.
func (a *API) Handler(opts HandlerOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(countRequests)

	r.Get("/", a.rootHandler)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.healthHandler)
		r.Get("/trips", a.listHandler)
		r.Route("/trips/{id}", func(r chi.Router) {
			r.Get("/download", a.downloadHandler)
			r.Get("/metrics", a.metricsHandler)
			r.Get("/geojson", a.geojsonHandler)
		})
	})

	var h http.Handler = r
	if len(opts.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(opts.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Accept", "Content-Type"}),
			handlers.AllowCredentials(),
		)(h)
	}
	if opts.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(opts.AccessLog, h)
	}
	return gzhttp.GzipHandler(h)
}

func (a *API) rootHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to GPXplorer API"})
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) listHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.registry.List())
}

func (a *API) downloadHandler(w http.ResponseWriter, r *http.Request) {
	d, doc, ok := a.document(w, r)
	if !ok {
		return
	}
	data, err := gpx.Serialize(doc)
	if err != nil {
		a.logger.Error("Can't encode GPX", "trip", d.ID, "error", err)
		a.writeError(w, http.StatusInternalServerError, "can't encode GPX")
		return
	}
	w.Header().Set("Content-Type", contentTypeGPX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.ID+".gpx"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		a.logger.Debug("Can't write", "error", err)
	}
}

func (a *API) metricsHandler(w http.ResponseWriter, r *http.Request) {
	d, doc, ok := a.document(w, r)
	if !ok {
		return
	}
	res := stats.Compute(doc, a.opts)
	statsPoints.Observe(float64(res.Stats.Points))
	a.logger.Debug("Computed trip metrics", "trip", d.ID, "points", res.Stats.Points, "samples", len(res.Graph))
	a.writeJSON(w, http.StatusOK, res)
}

func (a *API) geojsonHandler(w http.ResponseWriter, r *http.Request) {
	_, doc, ok := a.document(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contentTypeGeoJSON)
	if err := json.NewEncoder(w).Encode(doc.GeoJSON()); err != nil {
		a.logger.Debug("Can't write", "error", err)
	}
}

// document resolves the trip named in the URL and aggregates it. On
// failure the error response has been written and ok is false.
func (a *API) document(w http.ResponseWriter, r *http.Request) (d trips.Descriptor, doc *gpx.Document, ok bool) {
	id := chi.URLParam(r, "id")
	d, err := a.registry.Lookup(id)
	if errors.Is(err, trips.ErrUnknownTrip) {
		a.writeError(w, http.StatusNotFound, "trip not found")
		return d, nil, false
	} else if err != nil {
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return d, nil, false
	}

	doc, err = a.aggregator.Aggregate(r.Context(), d)
	if err != nil {
		a.logger.Error("Can't aggregate trip", "trip", d.ID, "error", err)
		a.writeError(w, http.StatusInternalServerError, "trip source unavailable")
		return d, nil, false
	}
	return d, doc, true
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Debug("Can't write", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}
