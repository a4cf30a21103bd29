// Package gpx derives an elevation profile from a GPX track log.
package gpx

import (
	"encoding/xml"
	"math"
)

// maxSamples caps the profile length so charts stay lightweight.
const maxSamples = 50

// Profile is the derived course geometry: a downsampled elevation series in
// feet, total distance in miles, and total climbing in feet.
type Profile struct {
	ElevationsFt  []int
	DistanceMiles float64
	GainFt        int
}

// Empty reports whether no elevation samples could be extracted.
func (p *Profile) Empty() bool {
	return len(p.ElevationsFt) == 0
}

type gpxDoc struct {
	Tracks []struct {
		Segments []struct {
			Points []trackPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

type trackPoint struct {
	Lat float64  `xml:"lat,attr"`
	Lon float64  `xml:"lon,attr"`
	Ele *float64 `xml:"ele"`
}

// Parse decodes GPX XML and derives the profile. Points without an elevation
// are skipped. A track with no usable points yields an empty (not nil)
// profile; malformed XML is an error.
func Parse(data []byte) (*Profile, error) {
	var doc gpxDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var points []trackPoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				if pt.Ele != nil {
					points = append(points, pt)
				}
			}
		}
	}
	if len(points) == 0 {
		return &Profile{}, nil
	}

	profile := &Profile{}

	var meters float64
	var gainM float64
	for i := 1; i < len(points); i++ {
		meters += haversine(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
		if d := *points[i].Ele - *points[i-1].Ele; d > 0 {
			gainM += d
		}
	}
	profile.DistanceMiles = round1(meters / 1609.344)
	profile.GainFt = int(math.Round(gainM * 3.28084))

	// The kept count is ceil(len/step), so the step must round up to stay
	// within maxSamples.
	step := 1
	if len(points) > maxSamples {
		step = (len(points) + maxSamples - 1) / maxSamples
	}
	for i := 0; i < len(points); i += step {
		profile.ElevationsFt = append(profile.ElevationsFt, int(math.Round(*points[i].Ele*3.28084)))
	}

	return profile, nil
}

// haversine returns the great-circle distance between two points in meters.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusM = 6371000

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
