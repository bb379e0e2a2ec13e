package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// ErrMalformed is returned, wrapped, for input that is not a GPX document.
var ErrMalformed = errors.New("malformed GPX document")

type xmlGPX struct {
	XMLName xml.Name `xml:"gpx"`
	Name    string   `xml:"metadata>name"`
	Tracks  []struct {
		Name     string `xml:"name"`
		Segments []struct {
			Points []xmlTrkPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

// Attributes and elements are read as strings so that a bad number only
// invalidates the value it belongs to.
type xmlTrkPoint struct {
	Lat  string `xml:"lat,attr"`
	Lon  string `xml:"lon,attr"`
	Ele  string `xml:"ele"`
	Time string `xml:"time"`
}

func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Parse decodes a GPX 1.0 or 1.1 document. Routes, waypoints and extensions
// are ignored.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var g xmlGPX
	if err := dec.Decode(&g); errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &Document{
		Name:   strings.TrimSpace(g.Name),
		Tracks: make([]Track, 0, len(g.Tracks)),
	}
	for _, trk := range g.Tracks {
		t := Track{
			Name:     strings.TrimSpace(trk.Name),
			Segments: make([]Segment, 0, len(trk.Segments)),
		}
		for _, seg := range trk.Segments {
			s := Segment{Points: make([]Point, 0, len(seg.Points))}
			for _, xp := range seg.Points {
				if p, ok := xp.point(); ok {
					s.Points = append(s.Points, p)
				}
			}
			t.Segments = append(t.Segments, s)
		}
		doc.Tracks = append(doc.Tracks, t)
	}
	return doc, nil
}

func (x xmlTrkPoint) point() (Point, bool) {
	lat, ok := parseFloat(x.Lat)
	if !ok || lat < -90 || lat > 90 {
		return Point{}, false
	}
	lon, ok := parseFloat(x.Lon)
	if !ok || lon < -180 || lon > 180 {
		return Point{}, false
	}

	p := Point{Lat: lat, Lon: lon}
	if ele, ok := parseFloat(x.Ele); ok {
		p.Ele = &ele
	}
	if ts := strings.TrimSpace(x.Time); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			p.Time = t
		}
	}
	return p, true
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
