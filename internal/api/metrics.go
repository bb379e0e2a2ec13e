package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxplorer",
		Subsystem: "http",
		Name:      "requests_total",
	}, []string{"route", "code"})
	statsPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gpxplorer",
		Subsystem: "stats",
		Name:      "trip_points",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
	})
)

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// MetricsListener serves the Prometheus registry.
type MetricsListener struct {
	Addr string
}

func (l *MetricsListener) String() string {
	return fmt.Sprintf("prometheus-listener(%s)@%p", l.Addr, l)
}

func (l *MetricsListener) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	list, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		list.Close()
	}()

	if err := http.Serve(list, mux); err != nil && ctx.Err() != nil {
		return ctx.Err()
	} else {
		return err
	}
}
