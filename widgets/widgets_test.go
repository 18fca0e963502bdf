package widgets

import (
	"image"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gizak/termui/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxserxxx/lingo/v2"

	"github.com/xxxserxxx/gotach"
	"github.com/xxxserxxx/gotach/gauge"
)

func setup(t *testing.T) *gauge.Gauge {
	t.Helper()
	ling, err := lingo.New("en_US", ".", gotach.Dicts)
	require.NoError(t, err)
	SetTr(ling.TranslationsForLocale("en_US"))
	conf := gotach.NewConfig()
	conf.Unit = "km/h"
	g, err := conf.NewGauge(nil)
	require.NoError(t, err)
	return g
}

func render(d termui.Drawable, r image.Rectangle) *termui.Buffer {
	buf := termui.NewBuffer(r)
	d.Draw(buf)
	return buf
}

func bufferText(buf *termui.Buffer) string {
	var sb strings.Builder
	for y := buf.Min.Y; y < buf.Max.Y; y++ {
		for x := buf.Min.X; x < buf.Max.X; x++ {
			sb.WriteRune(buf.GetCell(image.Pt(x, y)).Rune)
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func countBraille(buf *termui.Buffer) int {
	n := 0
	for _, c := range buf.CellMap {
		if c.Rune >= 0x2800 && c.Rune <= 0x28FF {
			n++
		}
	}
	return n
}

func TestDialDrawsScaleAndText(t *testing.T) {
	g := setup(t)
	d := NewDial(g)
	d.SetRect(0, 0, 40, 20)

	buf := render(d, d.Rectangle)
	assert.Greater(t, countBraille(buf), 0)
	text := bufferText(buf)
	assert.Contains(t, text, "km/h")
	assert.Contains(t, text, "0")

	require.NoError(t, g.SetTargetValue(50))
	g.Needle.Restore(gauge.State{Initialized: true, LastMovedAt: gauge.Idle, Current: 73, Target: 73})
	withNeedle := render(d, d.Rectangle)
	assert.Contains(t, bufferText(withNeedle), "73")
	assert.Greater(t, countBraille(withNeedle), countBraille(buf))
}

func TestDialTooSmall(t *testing.T) {
	d := NewDial(setup(t))
	d.SetRect(0, 0, 3, 3)
	buf := render(d, d.Rectangle)
	assert.Equal(t, 0, countBraille(buf))
}

func TestDialUpdateCountsSettles(t *testing.T) {
	g := setup(t)
	d := NewDial(g)
	s := metrics.NewSet()
	d.EnableMetrics(s)

	now := time.UnixMilli(1_000_000)
	settled := 0
	d.OnSettle = func() { settled++ }
	require.NoError(t, g.SetTargetValue(40))
	for i := 0; i < 300 && !g.Needle.Settled(); i++ {
		d.Update(now)
		now = now.Add(16 * time.Millisecond)
	}
	assert.InDelta(t, 40.0, g.Needle.State().Current, gauge.Settle)
	assert.Equal(t, 1, settled)
	assert.Equal(t, g.Needle.State(), d.Published())

	// nothing left to do; no more settles
	d.Update(now.Add(time.Second))
	assert.Equal(t, 1, settled)

	var sb strings.Builder
	s.WritePrometheus(&sb)
	out := sb.String()
	assert.Contains(t, out, "gotach_needle_target 40")
	assert.Contains(t, out, "gotach_needle_settles_total")
}

func TestDialMetricsWhileAnimating(t *testing.T) {
	g := setup(t)
	d := NewDial(g)
	s := metrics.NewSet()
	d.EnableMetrics(s)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				s.WritePrometheus(io.Discard)
			}
		}
	}()

	now := time.UnixMilli(1_000_000)
	for i := 0; i < 500; i++ {
		if i%50 == 0 {
			require.NoError(t, g.SetTargetValue(float64(i%100)))
		}
		d.Update(now)
		now = now.Add(16 * time.Millisecond)
	}
	close(done)
	wg.Wait()

	var sb strings.Builder
	s.WritePrometheus(&sb)
	assert.Contains(t, sb.String(), "gotach_needle_current")
}

func TestPolar(t *testing.T) {
	c := image.Pt(10, 10)
	assert.Equal(t, image.Pt(10, 5), polar(c, 5, 0))
	assert.Equal(t, image.Pt(15, 10), polar(c, 5, 90))
	assert.Equal(t, image.Pt(10, 15), polar(c, 5, 180))
	assert.Equal(t, image.Pt(5, 10), polar(c, 5, 270))
}

func TestStatusBarFPS(t *testing.T) {
	sb := NewStatusBar()
	assert.Equal(t, 0.0, sb.FPS())
	now := time.Unix(0, 0)
	for i := 0; i < 50; i++ {
		sb.Frame(now)
		now = now.Add(40 * time.Millisecond)
	}
	assert.InDelta(t, 25.0, sb.FPS(), 0.5)
}

func TestStatusBarDraw(t *testing.T) {
	setup(t)
	sb := NewStatusBar()
	sb.Status = "demo"
	sb.SetRect(0, 0, 60, 1)
	text := bufferText(render(sb, sb.Rectangle))
	assert.Contains(t, text, "gotach")
	assert.Contains(t, text, "demo")
}

func TestHelpMenu(t *testing.T) {
	setup(t)
	help := NewHelpMenu()
	help.Resize(100, 40)
	assert.True(t, help.Rectangle.In(image.Rect(0, 0, 100, 40)))
	text := bufferText(render(help, help.Rectangle))
	assert.Contains(t, text, "Quit")
}
