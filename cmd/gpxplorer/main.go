package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calmh.dev/gpxplorer/cmd/gpxplorer/example"
	"calmh.dev/gpxplorer/cmd/gpxplorer/serve"
	"calmh.dev/gpxplorer/cmd/gpxplorer/summarize"
	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type CLI struct {
	LogLevel string `default:"info" enum:"debug,info,warn,error" help:"Log level (${enum})" env:"GPXPLORER_LOG_LEVEL"`

	Serve     serve.CLI     `cmd:"" default:"withargs" help:"Serve trips over HTTP"`
	Summarize summarize.CLI `cmd:"" help:"Print statistics for GPX files or a catalog trip"`
	Example   example.CLI   `cmd:"" help:"Write an example track and trip catalog"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("gpxplorer"),
		kong.Description("Serves GPS trips assembled from GPX files."),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		kctx.FatalIfErrorf(err)
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	if err := kctx.Run(logger); err != nil {
		logger.Error("Exiting", "error", err)
		cancel()
		os.Exit(1)
	}
}
