// Package gpx holds the in-memory track document model together with the
// GPX 1.1 reader and writer.
package gpx

import "time"

// Point is a single track point. Ele is nil when the elevation is unknown
// and Time is the zero time when the point carries no timestamp.
type Point struct {
	Lat  float64
	Lon  float64
	Ele  *float64
	Time time.Time
}

func (p Point) HasEle() bool {
	return p.Ele != nil
}

func (p Point) HasTime() bool {
	return !p.Time.IsZero()
}

type Segment struct {
	Points []Point
}

type Track struct {
	Name     string
	Segments []Segment
}

// Document is the content of one GPX file, or of several merged ones.
// Name is the metadata name.
type Document struct {
	Name   string
	Tracks []Track
}

// NumPoints returns the number of points across all tracks and segments.
func (d *Document) NumPoints() int {
	n := 0
	for _, trk := range d.Tracks {
		for _, seg := range trk.Segments {
			n += len(seg.Points)
		}
	}
	return n
}

// NumSegments returns the number of segments across all tracks.
func (d *Document) NumSegments() int {
	n := 0
	for _, trk := range d.Tracks {
		n += len(trk.Segments)
	}
	return n
}

// Walk calls fn for every point in document order. prev is the preceding
// point of the same segment, or nil for the first point of a segment.
func (d *Document) Walk(fn func(prev, cur *Point)) {
	for ti := range d.Tracks {
		for si := range d.Tracks[ti].Segments {
			pts := d.Tracks[ti].Segments[si].Points
			for i := range pts {
				var prev *Point
				if i > 0 {
					prev = &pts[i-1]
				}
				fn(prev, &pts[i])
			}
		}
	}
}

// Elevation returns a pointer to a copy of v, for building points.
func Elevation(v float64) *float64 {
	return &v
}
