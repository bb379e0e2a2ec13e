package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server runs an HTTP handler as a supervised service.
type Server struct {
	Addr    string
	Handler http.Handler
	Logger  *slog.Logger

	// Called with the bound address once listening; used by tests.
	started func(net.Addr)
}

func (s *Server) String() string {
	return fmt.Sprintf("api-server(%s)@%p", s.Addr, s)
}

func (s *Server) Serve(ctx context.Context) error {
	list, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.Logger.Info("Serving API", "addr", list.Addr().String())
	if s.started != nil {
		s.started(list.Addr())
	}

	srv := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.Logger.Warn("Shutdown", "error", err)
		}
	}()

	err = srv.Serve(list)
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return err
}
