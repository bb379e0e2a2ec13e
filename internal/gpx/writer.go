package gpx

import (
	"io"
	"time"

	gogpx "github.com/tkrajina/gpxgo/gpx"
)

const Creator = "GPXplorer"

// Serialize encodes the document as GPX 1.1. Timestamps are written in UTC
// with whole seconds.
func Serialize(d *Document) ([]byte, error) {
	return d.gpxgo().ToXml(gogpx.ToXmlParams{Version: "1.1", Indent: true})
}

// WriteTo writes the GPX 1.1 encoding of the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := Serialize(d)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (d *Document) gpxgo() *gogpx.GPX {
	g := &gogpx.GPX{
		Creator: Creator,
		Name:    d.Name,
		Tracks:  make([]gogpx.GPXTrack, 0, len(d.Tracks)),
	}
	for _, trk := range d.Tracks {
		t := gogpx.GPXTrack{
			Name:     trk.Name,
			Segments: make([]gogpx.GPXTrackSegment, 0, len(trk.Segments)),
		}
		for _, seg := range trk.Segments {
			s := gogpx.GPXTrackSegment{Points: make([]gogpx.GPXPoint, 0, len(seg.Points))}
			for _, p := range seg.Points {
				s.Points = append(s.Points, gpxgoPoint(p))
			}
			t.Segments = append(t.Segments, s)
		}
		g.Tracks = append(g.Tracks, t)
	}
	return g
}

func gpxgoPoint(p Point) gogpx.GPXPoint {
	gp := gogpx.GPXPoint{
		Point:     gogpx.Point{Latitude: p.Lat, Longitude: p.Lon},
		Timestamp: p.Time.UTC().Truncate(time.Second),
	}
	if p.Ele != nil {
		gp.Elevation = *gogpx.NewNullableFloat64(*p.Ele)
	}
	return gp
}
