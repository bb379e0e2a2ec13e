// Package accesslog writes to files named by a time pattern, switching to a
// new file whenever the formatted name changes.
package accesslog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var filesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gpxplorer",
	Subsystem: "accesslog",
	Name:      "files_opened_total",
})

// File is an io.WriteCloser over a series of files. The base name of
// Pattern is a time.Format layout evaluated in UTC, e.g.
// "logs/access-20060102.log".
type File struct {
	Pattern string
	// Now returns the current time; nil means time.Now.
	Now func() time.Time

	mut     sync.Mutex
	current string
	fd      *os.File
}

func (f *File) String() string {
	return fmt.Sprintf("access-log(%q)@%p", f.Pattern, f)
}

func (f *File) Write(p []byte) (int, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	if name := f.name(); name != f.current || f.fd == nil {
		if err := f.reopen(name); err != nil {
			return 0, err
		}
	}
	return f.fd.Write(p)
}

func (f *File) Close() error {
	f.mut.Lock()
	defer f.mut.Unlock()
	if f.fd == nil {
		return nil
	}
	defer func() { f.fd = nil }()
	return f.fd.Close()
}

func (f *File) reopen(name string) error {
	if f.fd != nil {
		f.fd.Close()
		f.fd = nil
	}

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	fd, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	f.fd = fd
	f.current = name
	filesCreated.Inc()
	return nil
}

func (f *File) name() string {
	dir, base := filepath.Split(f.Pattern)
	return filepath.Join(dir, f.now().UTC().Format(base))
}

func (f *File) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
