package gpx

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func loadGPX(t *testing.T, name string) *Document {
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err, "read file")
	doc, err := ParseBytes(data)
	require.NoError(t, err, "parse")
	return doc
}

func TestParseExample(t *testing.T) {
	doc := loadGPX(t, "example.gpx")
	require.Len(t, doc.Tracks, 1)
	require.Equal(t, "Example Loop", doc.Tracks[0].Name)
	require.Len(t, doc.Tracks[0].Segments, 1)

	pts := doc.Tracks[0].Segments[0].Points
	require.Len(t, pts, 3)
	require.Equal(t, 37.7749, pts[0].Lat)
	require.Equal(t, -122.4194, pts[0].Lon)
	require.True(t, pts[0].HasEle())
	require.Equal(t, 10.0, *pts[0].Ele)
	require.Equal(t, 15.0, *pts[2].Ele)
	require.False(t, pts[0].HasTime())
	require.Equal(t, 3, doc.NumPoints())
}

func TestParseLenientValues(t *testing.T) {
	doc := loadGPX(t, "morning-ride.gpx")
	require.Len(t, doc.Tracks, 2)

	climb := doc.Tracks[0]
	require.Equal(t, "Climb", climb.Name)
	require.Len(t, climb.Segments, 2)

	// The point with a non-numeric latitude is dropped.
	seg := climb.Segments[0].Points
	require.Len(t, seg, 3)
	require.Equal(t, 1010.5, *seg[1].Ele)
	require.Nil(t, seg[2].Ele, "non-numeric elevation is unknown")
	require.True(t, seg[1].Time.Equal(time.Date(2023, 6, 1, 8, 0, 30, 0, time.UTC)))

	lone := climb.Segments[1].Points
	require.Len(t, lone, 1)
	require.Nil(t, lone[0].Ele)
	require.False(t, lone[0].HasTime(), "unparsable time is absent")

	second := doc.Tracks[1]
	require.Equal(t, "", second.Name)
	require.True(t, second.Segments[0].Points[0].Time.Equal(time.Date(2023, 6, 1, 8, 5, 0, int(500*time.Millisecond), time.UTC)))

	require.Equal(t, 5, doc.NumPoints())
	require.Equal(t, 3, doc.NumSegments())
}

func TestParseCharset(t *testing.T) {
	doc := loadGPX(t, "latin1.gpx")
	require.Equal(t, "Zürich", doc.Tracks[0].Name)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"not xml":    "this is not a GPX file",
		"unclosed":   `<gpx><trk><trkseg><trkpt lat="1" lon="2">`,
		"wrong root": `<kml><Document/></kml>`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformed), "error %v should wrap ErrMalformed", err)
		})
	}
}

func TestParseNoTracks(t *testing.T) {
	doc, err := ParseBytes([]byte(`<gpx version="1.1"><wpt lat="1" lon="2"/></gpx>`))
	require.NoError(t, err)
	require.Empty(t, doc.Tracks)
	require.Equal(t, 0, doc.NumPoints())
}

func TestWalk(t *testing.T) {
	doc := loadGPX(t, "morning-ride.gpx")

	var starts, points int
	doc.Walk(func(prev, cur *Point) {
		points++
		if prev == nil {
			starts++
		}
	})
	require.Equal(t, 5, points)
	require.Equal(t, 3, starts, "one segment start per segment")
}
