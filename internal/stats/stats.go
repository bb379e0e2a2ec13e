// Package stats computes trip statistics and the elevation profile.
package stats

import (
	"math"
	"time"

	"calmh.dev/gpxplorer/internal/geometry"
	"calmh.dev/gpxplorer/internal/gpx"
)

const (
	DefaultStoppedSpeedKmh = 1.0
	DefaultGraphTarget     = 200
)

type Options struct {
	// Intervals slower than this are counted as stopped time.
	StoppedSpeedKmh float64
	// Approximate number of profile samples.
	GraphTarget int
}

func DefaultOptions() Options {
	return Options{
		StoppedSpeedKmh: DefaultStoppedSpeedKmh,
		GraphTarget:     DefaultGraphTarget,
	}
}

type Stats struct {
	DistanceKm     float64  `json:"distance_km"`
	ElevationGainM int      `json:"elevation_gain_m"`
	ElevationLossM int      `json:"elevation_loss_m"`
	MovingTimeS    int      `json:"moving_time_s"`
	StoppedTimeS   int      `json:"stopped_time_s"`
	MaxSpeedKmh    float64  `json:"max_speed_kmh"`
	AvgSpeedKmh    float64  `json:"avg_speed_kmh"`
	Points         int      `json:"points"`
	MaxElevationM  *float64 `json:"max_elevation_m"`
	MinElevationM  *float64 `json:"min_elevation_m"`
}

// Sample is one point of the elevation profile. Elevation is nil when the
// point has no known elevation.
type Sample struct {
	Distance  float64  `json:"distance"`
	Elevation *float64 `json:"elevation"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
}

type Result struct {
	Stats Stats    `json:"stats"`
	Graph []Sample `json:"graph"`
}

// Compute walks the document once and returns its statistics and a
// profile of about opts.GraphTarget samples that always ends at the last
// point. Distances and durations are only counted between consecutive
// points of the same segment.
func Compute(doc *gpx.Document, opts Options) Result {
	if opts.GraphTarget <= 0 {
		opts.GraphTarget = DefaultGraphTarget
	}
	if opts.StoppedSpeedKmh < 0 {
		opts.StoppedSpeedKmh = 0
	}

	total := doc.NumPoints()
	stride := Stride(total, opts.GraphTarget)

	acc := accumulator{stoppedSpeed: opts.StoppedSpeedKmh / 3.6}
	graph := make([]Sample, 0, total/stride+1)
	i := 0
	doc.Walk(func(prev, cur *gpx.Point) {
		acc.add(prev, cur)
		if i%stride == 0 || i == total-1 {
			graph = append(graph, Sample{
				Distance:  round(acc.distance/1000, 2),
				Elevation: roundPtr(cur.Ele, 1),
				Lat:       cur.Lat,
				Lon:       cur.Lon,
			})
		}
		i++
	})

	return Result{Stats: acc.stats(total), Graph: graph}
}

// Stride returns the index step between profile samples.
func Stride(total, target int) int {
	if target <= 0 || total/target < 1 {
		return 1
	}
	return total / target
}

type accumulator struct {
	stoppedSpeed float64 // m/s

	distance float64 // m
	gain     float64
	loss     float64
	lastEle  *float64
	minEle   *float64
	maxEle   *float64
	moving   metric
	stopped  time.Duration
}

func (a *accumulator) add(prev, cur *gpx.Point) {
	if prev == nil {
		a.lastEle = nil
	} else {
		a.interval(*prev, *cur)
	}

	if cur.Ele == nil {
		return
	}
	ele := *cur.Ele
	if a.lastEle != nil {
		if d := ele - *a.lastEle; d > 0 {
			a.gain += d
		} else {
			a.loss -= d
		}
	}
	a.lastEle = &ele
	if a.minEle == nil || ele < *a.minEle {
		a.minEle = &ele
	}
	if a.maxEle == nil || ele > *a.maxEle {
		a.maxEle = &ele
	}
}

func (a *accumulator) interval(p0, p1 gpx.Point) {
	dist := geometry.Distance(p0, p1)
	a.distance += dist

	if !p0.HasTime() || !p1.HasTime() {
		return
	}
	td := p1.Time.Sub(p0.Time)
	if td <= 0 {
		return
	}
	if speed := geometry.Speed(dist, td); speed < a.stoppedSpeed {
		a.stopped += td
	} else {
		a.moving.record(speed, td)
	}
}

func (a *accumulator) stats(points int) Stats {
	return Stats{
		DistanceKm:     round(a.distance/1000, 2),
		ElevationGainM: int(math.Round(a.gain)),
		ElevationLossM: int(math.Round(a.loss)),
		MovingTimeS:    int(a.moving.dur.Round(time.Second) / time.Second),
		StoppedTimeS:   int(a.stopped.Round(time.Second) / time.Second),
		MaxSpeedKmh:    round(geometry.KMH(a.moving.max), 1),
		AvgSpeedKmh:    round(geometry.KMH(a.moving.avg()), 1),
		Points:         points,
		MaxElevationM:  roundPtr(a.maxEle, 1),
		MinElevationM:  roundPtr(a.minEle, 1),
	}
}

// metric is a duration weighted average and maximum of a value.
type metric struct {
	sum float64
	dur time.Duration
	max float64
}

func (m *metric) record(val float64, dur time.Duration) {
	m.sum += val * dur.Seconds()
	m.dur += dur
	if val > m.max {
		m.max = val
	}
}

func (m *metric) avg() float64 {
	if m.dur <= 0 {
		return 0
	}
	return m.sum / m.dur.Seconds()
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func roundPtr(v *float64, decimals int) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, decimals)
	return &r
}
