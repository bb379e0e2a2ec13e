package gpx

import (
	geojson "github.com/paulmach/go.geojson"
)

// GeoJSON returns one feature per segment: a LineString, or a Point for
// segments holding a single point. Empty segments are left out. Positions
// are [lon, lat] with the elevation appended when known.
func (d *Document) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for ti, trk := range d.Tracks {
		for si, seg := range trk.Segments {
			var f *geojson.Feature
			switch len(seg.Points) {
			case 0:
				continue
			case 1:
				f = geojson.NewPointFeature(position(seg.Points[0]))
			default:
				coords := make([][]float64, len(seg.Points))
				for i, p := range seg.Points {
					coords[i] = position(p)
				}
				f = geojson.NewLineStringFeature(coords)
			}
			f.SetProperty("track", trk.Name)
			f.SetProperty("track_index", ti)
			f.SetProperty("segment_index", si)
			fc.AddFeature(f)
		}
	}
	return fc
}

func position(p Point) []float64 {
	if p.Ele != nil {
		return []float64{p.Lon, p.Lat, *p.Ele}
	}
	return []float64{p.Lon, p.Lat}
}
