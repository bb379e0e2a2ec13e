package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"calmh.dev/gpxplorer/internal/trips"
	"github.com/c2h5oh/datasize"
)

// A Loader returns the raw bytes of a source file. Any error means the
// file is treated as absent.
type Loader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

var (
	ErrBadName  = errors.New("file name outside data directory")
	ErrTooLarge = errors.New("file too large")
)

// DirLoader reads source files from a single flat directory.
type DirLoader struct {
	Dir string
	// MaxSize limits the size of files read; zero means no limit.
	MaxSize datasize.ByteSize
}

func (l DirLoader) String() string {
	return fmt.Sprintf("dir-loader(%s)", l.Dir)
}

func (l DirLoader) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !trips.ValidFileName(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrBadName)
	}

	fd, err := os.Open(filepath.Join(l.Dir, name))
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if l.MaxSize == 0 {
		return io.ReadAll(fd)
	}

	max := int64(l.MaxSize.Bytes())
	data, err := io.ReadAll(io.LimitReader(fd, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%q (limit %s): %w", name, l.MaxSize.HR(), ErrTooLarge)
	}
	return data, nil
}

// MapLoader serves files from memory.
type MapLoader map[string][]byte

func (m MapLoader) Load(_ context.Context, name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, os.ErrNotExist)
	}
	return data, nil
}
