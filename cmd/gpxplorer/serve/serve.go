package serve

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"

	"calmh.dev/gpxplorer/internal/accesslog"
	"calmh.dev/gpxplorer/internal/aggregate"
	"calmh.dev/gpxplorer/internal/api"
	"calmh.dev/gpxplorer/internal/stats"
	"calmh.dev/gpxplorer/internal/trips"
	"github.com/c2h5oh/datasize"
	"github.com/thejerf/suture/v4"
)

type CLI struct {
	Listen     string   `default:"127.0.0.1:8000" help:"HTTP listen address for the API" placeholder:"ADDR" env:"GPXPLORER_LISTEN" group:"API"`
	CORSOrigin []string `name:"cors-origin" default:"*" help:"Allowed CORS origins" placeholder:"ORIGIN" env:"GPXPLORER_CORS_ORIGIN" group:"API"`
	AccessLog  string   `help:"Access log file naming pattern, see https://golang.org/pkg/time/#Time.Format (- for stdout)" placeholder:"PATTERN" group:"API"`

	DataDir     string            `default:"data" help:"Directory holding the GPX source files" placeholder:"DIR" env:"GPXPLORER_DATA_DIR" group:"Trips"`
	Catalog     string            `default:"trips.yaml" help:"Trip catalog file (YAML, JSON or TOML)" placeholder:"FILE" env:"GPXPLORER_CATALOG" group:"Trips"`
	MaxFileSize datasize.ByteSize `default:"64MB" help:"Largest GPX source file that will be read" group:"Trips"`

	StoppedSpeed float64 `default:"1.0" help:"Speed below which time counts as stopped (km/h)" group:"Statistics"`
	GraphSamples int     `default:"200" help:"Approximate number of elevation profile samples" group:"Statistics"`

	MetricsListen string `default:"127.0.0.1:9140" help:"HTTP listen address for Prometheus metrics endpoint" placeholder:"ADDR" env:"GPXPLORER_METRICS_LISTEN" group:"Metrics"`
}

func (cli *CLI) Run(ctx context.Context, logger *slog.Logger) error {
	logger = logger.With("module", "serve")

	reg, err := trips.Load(cli.Catalog)
	if err != nil {
		return err
	}
	logger.Info("Loaded trip catalog", "file", cli.Catalog, "trips", reg.Len())

	loader := aggregate.DirLoader{Dir: cli.DataDir, MaxSize: cli.MaxFileSize}
	logger.Info("Reading GPX files", "dir", cli.DataDir, "max", cli.MaxFileSize.HR())

	opts := stats.Options{
		StoppedSpeedKmh: cli.StoppedSpeed,
		GraphTarget:     cli.GraphSamples,
	}
	a := api.New(reg, aggregate.New(loader, logger), opts, logger)

	hopts := api.HandlerOptions{CORSOrigins: cli.CORSOrigin}
	if cli.AccessLog != "" {
		logger.Info("Writing access log", "pattern", cli.AccessLog)
		w := openAccessLog(cli.AccessLog)
		defer w.Close()
		hopts.AccessLog = w
	}

	sup := suture.New("main", suture.Spec{
		EventHook: func(ev suture.Event) {
			logger.Error(ev.String())
		},
	})

	sup.Add(&api.Server{Addr: cli.Listen, Handler: a.Handler(hopts), Logger: logger})

	if cli.MetricsListen != "" {
		url := &url.URL{Scheme: "http", Host: cli.MetricsListen, Path: "/metrics"}
		logger.Info("Exporting metrics", "url", url.String())
		sup.Add(&api.MetricsListener{Addr: cli.MetricsListen})
	}

	return sup.Serve(ctx)
}

func openAccessLog(pattern string) io.WriteCloser {
	if pattern == "-" {
		return nopCloser{os.Stdout}
	}
	return &accesslog.File{Pattern: pattern}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
