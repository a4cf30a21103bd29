package gpx

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
  <trk><name>Out and back</name>
    <trkseg>
      <trkpt lat="39.00" lon="-106.00"><ele>3000</ele></trkpt>
      <trkpt lat="39.01" lon="-106.00"><ele>3100</ele></trkpt>
      <trkpt lat="39.02" lon="-106.00"><ele>3050</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sampleTrack))
	require.NoError(t, err)
	require.False(t, p.Empty())

	// 0.02° of latitude is about 2.22 km.
	assert.InDelta(t, 1.4, p.DistanceMiles, 0.05)
	// One 100 m climb; the descent does not count.
	assert.Equal(t, 328, p.GainFt)
	assert.Equal(t, []int{9843, 10171, 10007}, p.ElevationsFt)
}

func TestParseSkipsPointsWithoutElevation(t *testing.T) {
	track := `<gpx><trk><trkseg>
      <trkpt lat="39.00" lon="-106.00"><ele>3000</ele></trkpt>
      <trkpt lat="39.01" lon="-106.00"></trkpt>
      <trkpt lat="39.02" lon="-106.00"><ele>3100</ele></trkpt>
    </trkseg></trk></gpx>`

	p, err := Parse([]byte(track))
	require.NoError(t, err)
	assert.Len(t, p.ElevationsFt, 2)
	assert.Equal(t, 328, p.GainFt)
}

func TestParseNoElevationsIsEmptyNotError(t *testing.T) {
	track := `<gpx><trk><trkseg>
      <trkpt lat="39.00" lon="-106.00"></trkpt>
    </trkseg></trk></gpx>`

	p, err := Parse([]byte(track))
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<gpx><trk>`))
	assert.Error(t, err)
}

func TestParseDownsamplesLongTracks(t *testing.T) {
	// Lengths that don't divide evenly must still respect the cap.
	cases := []struct {
		points int
		want   int
	}{
		{50, 50},
		{51, 26},
		{99, 50},
		{120, 40},
		{149, 50},
		{200, 50},
	}
	for _, tc := range cases {
		var b strings.Builder
		b.WriteString(`<gpx><trk><trkseg>`)
		for i := 0; i < tc.points; i++ {
			fmt.Fprintf(&b, `<trkpt lat="%f" lon="-106.00"><ele>%d</ele></trkpt>`, 39.0+float64(i)*0.001, 3000+i)
		}
		b.WriteString(`</trkseg></trk></gpx>`)

		p, err := Parse([]byte(b.String()))
		require.NoError(t, err)
		assert.Len(t, p.ElevationsFt, tc.want, "%d points", tc.points)
		assert.LessOrEqual(t, len(p.ElevationsFt), maxSamples, "%d points", tc.points)
	}
}
