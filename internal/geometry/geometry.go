package geometry

import (
	"time"

	"calmh.dev/gpxplorer/internal/gpx"
	gogpx "github.com/tkrajina/gpxgo/gpx"
)

// Distance returns the distance between two points in meters. The
// elevation difference is included when both elevations are known.
// Points close to each other use a flat-earth approximation, points
// further apart the haversine formula.
func Distance(p0, p1 gpx.Point) float64 {
	a := gogpx.Point{Latitude: p0.Lat, Longitude: p0.Lon}
	b := gogpx.Point{Latitude: p1.Lat, Longitude: p1.Lon}
	if p0.Ele != nil && p1.Ele != nil {
		a.Elevation = *gogpx.NewNullableFloat64(*p0.Ele)
		b.Elevation = *gogpx.NewNullableFloat64(*p1.Ele)
	}
	return a.Distance3D(&b)
}

// Speed returns the speed in meters per second over the given distance
// and duration, or zero for non-positive durations.
func Speed(meters float64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return meters / d.Seconds()
}

// KMH converts meters per second to kilometers per hour.
func KMH(mps float64) float64 {
	return mps * 3.6
}
