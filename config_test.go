package gotach

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxserxxx/lingo/v2"

	"github.com/xxxserxxx/gotach/gauge"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	ling, err := lingo.New("en_US", ".", Dicts)
	require.NoError(t, err)
	c := NewConfig()
	c.Tr = ling.TranslationsForLocale("en_US")
	return c
}

func TestLoad(t *testing.T) {
	c := testConfig(t)
	in := strings.NewReader(`
# comment
scalestart=0
scaleend=240
startangle=45
divisions=8
subdivisions=2
ranges=120:2, 200:3, 240:1
unit=km/h
source=CPU
updateinterval=2s
frameinterval=20ms
driveduration=1m
drivemin=5
drivemax=9
statusbar=false
resume=true
maxlogsize=100
metricsexportport=:8080
`)
	require.NoError(t, load(in, &c))
	assert.Equal(t, 240.0, c.ScaleEnd)
	assert.Equal(t, 45.0, c.StartAngle)
	assert.Equal(t, 8, c.Divisions)
	assert.Equal(t, 2, c.Subdivisions)
	assert.Equal(t, []float64{120, 200, 240}, c.Ranges)
	assert.Equal(t, []gauge.Color{2, 3, 1}, c.RangeColors)
	assert.Equal(t, "km/h", c.Unit)
	assert.Equal(t, "cpu", c.Source)
	assert.Equal(t, 2*time.Second, c.UpdateInterval)
	assert.Equal(t, 20*time.Millisecond, c.FrameInterval)
	assert.Equal(t, time.Minute, c.DriveDuration)
	assert.Equal(t, 5, c.DriveMin)
	assert.Equal(t, 9, c.DriveMax)
	assert.False(t, c.Statusbar)
	assert.True(t, c.Resume)
	assert.Equal(t, int64(100), c.MaxLogSize)
	assert.Equal(t, ":8080", c.ExportPort)

	_, err := c.NewGauge(nil)
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	for _, in := range []string{
		"divisions",
		"divisions=many",
		"scaleend=x",
		"ranges=50",
		"updateinterval=5",
		"resume=maybe",
	} {
		c := testConfig(t)
		assert.Error(t, load(strings.NewReader(in), &c), in)
	}
}

func TestLoadUnknownKeyIsNotFatal(t *testing.T) {
	c := testConfig(t)
	assert.NoError(t, load(strings.NewReader("warpfactor=9\n"), &c))
}

func TestMarshalRoundTrip(t *testing.T) {
	c := testConfig(t)
	c.ScaleEnd = 8000
	c.Ranges = []float64{6000, 7000, 8000}
	c.RangeColors = []gauge.Color{2, 208, 1}
	c.Unit = "rpm"
	c.Source = "remote"
	c.SourceArg = "http://box:8080/metrics#rpm"
	c.ExportPort = ":9000"
	c.Resume = true

	out := marshal(&c)
	d := testConfig(t)
	require.NoError(t, load(bytes.NewReader(out), &d))
	assert.Equal(t, c.ScaleEnd, d.ScaleEnd)
	assert.Equal(t, c.Ranges, d.Ranges)
	assert.Equal(t, c.RangeColors, d.RangeColors)
	assert.Equal(t, c.Unit, d.Unit)
	assert.Equal(t, c.Source, d.Source)
	assert.Equal(t, c.SourceArg, d.SourceArg)
	assert.Equal(t, c.ExportPort, d.ExportPort)
	assert.Equal(t, c.UpdateInterval, d.UpdateInterval)
	assert.Equal(t, c.DriveDuration, d.DriveDuration)
	assert.True(t, d.Resume)
	assert.Equal(t, "", d.Text)
}

func TestParseRanges(t *testing.T) {
	b, c, err := ParseRanges("16:2,25:3,40:208,100:1")
	require.NoError(t, err)
	assert.Equal(t, []float64{16, 25, 40, 100}, b)
	assert.Equal(t, []gauge.Color{2, 3, 208, 1}, c)
	assert.Equal(t, "16:2,25:3,40:208,100:1", FormatRanges(b, c))

	for _, bad := range []string{"16", "x:1", "16:red", "1:2:3"} {
		_, _, err := ParseRanges(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewGaugeRejectsBadConfig(t *testing.T) {
	c := testConfig(t)
	c.ScaleEnd = c.ScaleStart
	_, err := c.NewGauge(nil)
	assert.ErrorIs(t, err, gauge.ErrConfiguration)

	c = testConfig(t)
	c.Ranges = []float64{50, 90}
	c.RangeColors = []gauge.Color{1, 2}
	_, err = c.NewGauge(nil)
	assert.ErrorIs(t, err, gauge.ErrConfiguration)

	c = testConfig(t)
	c.Ranges = []float64{100}
	c.RangeColors = []gauge.Color{7}
	g, err := c.NewGauge(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Ranges.Len())
}

func TestDefaultRangesFollowScale(t *testing.T) {
	c := testConfig(t)
	g, err := c.NewGauge(nil)
	require.NoError(t, err)
	require.Equal(t, 4, g.Ranges.Len())
	assert.InDeltaSlice(t, []float64{16, 25, 40, 100}, upperBounds(g.Ranges), 1e-9)

	c.ScaleEnd = 200
	g, err = c.NewGauge(nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{32, 50, 80, 200}, upperBounds(g.Ranges), 1e-9)

	c.ScaleStart = -40
	c.ScaleEnd = 60
	g, err = c.NewGauge(nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-24, -15, 0, 60}, upperBounds(g.Ranges), 1e-9)

	// a written config keeps following the scale
	d := testConfig(t)
	require.NoError(t, load(bytes.NewReader(marshal(&c)), &d))
	assert.Empty(t, d.Ranges)
	assert.Empty(t, d.RangeColors)
}

func upperBounds(rt *gauge.RangeTable) []float64 {
	var bs []float64
	for _, r := range rt.Ranges() {
		bs = append(bs, r.UpperBound)
	}
	return bs
}

func TestNeedleStateFile(t *testing.T) {
	c := testConfig(t)
	c.StateFile = filepath.Join(t.TempDir(), "sub", STATEFILE)

	g, err := c.NewGauge(nil)
	require.NoError(t, err)
	// nothing saved yet
	require.NoError(t, c.RestoreNeedle(g.Needle))
	assert.Equal(t, gauge.NewState(0), g.Needle.State())

	require.NoError(t, g.SetTargetValue(55))
	now := time.UnixMilli(5_000)
	for i := 0; i < 8; i++ {
		g.Advance(now)
		now = now.Add(16 * time.Millisecond)
	}
	require.NoError(t, c.SaveNeedle(g.Needle))

	h, err := c.NewGauge(nil)
	require.NoError(t, err)
	require.NoError(t, c.RestoreNeedle(h.Needle))
	assert.Equal(t, g.Needle.State(), h.Needle.State())
	assert.Equal(t, g.Advance(now), h.Advance(now))
}
