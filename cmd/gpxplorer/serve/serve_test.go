package serve

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"calmh.dev/gpxplorer/internal/trips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunBadCatalog(t *testing.T) {
	dir := t.TempDir()
	cli := &CLI{Catalog: filepath.Join(dir, "missing.yaml"), DataDir: dir}
	assert.Error(t, cli.Run(context.Background(), discard()))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("trips:\n  - id: x\n    files: [../etc/passwd]\n"), 0o644))
	cli.Catalog = bad
	assert.ErrorIs(t, cli.Run(context.Background(), discard()), trips.ErrInvalidCatalog)
}

func TestRunStops(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "trips.yaml")
	require.NoError(t, trips.Save(catalog, []trips.Descriptor{{ID: "a", Files: []string{"a.gpx"}}}))

	cli := &CLI{
		Listen:    "127.0.0.1:0",
		Catalog:   catalog,
		DataDir:   dir,
		AccessLog: filepath.Join(dir, "access.log"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = cli.Run(ctx, discard())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
