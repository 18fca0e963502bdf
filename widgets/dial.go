package widgets

import (
	"image"
	"math"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gizak/termui/v3"
	"github.com/mattn/go-runewidth"

	"github.com/xxxserxxx/gotach/gauge"
)

const (
	majorTickLength = 0.18
	minorTickLength = 0.08
	needleLength    = 0.78
	// labels need at least this many cells across before they fit
	minLabelWidth = 30
)

// Dial draws a gauge.Gauge as a round braille dial: scale ticks coloured by
// range, a needle, and the value and unit underneath the hub.
type Dial struct {
	termui.Block
	Gauge      *gauge.Gauge
	TextStyle  termui.Style
	UnitStyle  termui.Style
	HubColor   termui.Color
	ShowLabels bool
	// OnSettle is called from Update on the frame the needle arrives, which
	// asks for no further redraws of its own.
	OnSettle   func()

	moving  bool
	settles *metrics.Counter

	// copy of the needle state for the metrics exporter
	mu        sync.Mutex
	published gauge.State
}

func NewDial(g *gauge.Gauge) *Dial {
	d := &Dial{
		Block:      *termui.NewBlock(),
		Gauge:      g,
		TextStyle:  termui.NewStyle(termui.ColorWhite, termui.ColorClear, termui.ModifierBold),
		UnitStyle:  termui.NewStyle(termui.ColorGreen),
		HubColor:   termui.ColorWhite,
		ShowLabels: true,
		published:  g.Needle.State(),
	}
	d.Title = tr.Value("widget.label.dial")
	return d
}

// Update advances the needle to now.
func (d *Dial) Update(now time.Time) {
	st := d.Gauge.Advance(now)
	if d.moving && !st.Moving() {
		if d.settles != nil {
			d.settles.Inc()
		}
		if d.OnSettle != nil {
			d.OnSettle()
		}
	}
	d.moving = st.Moving()
	d.mu.Lock()
	d.published = st
	d.mu.Unlock()
}

// Published is the needle state as of the last Update. Unlike the needle
// itself it may be read from any goroutine.
func (d *Dial) Published() gauge.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.published
}

// EnableMetrics exports the needle state.
func (d *Dial) EnableMetrics(s *metrics.Set) {
	s.NewGauge("gotach_needle_current", func() float64 {
		return d.Published().Current
	})
	s.NewGauge("gotach_needle_target", func() float64 {
		return d.Published().Target
	})
	s.NewGauge("gotach_needle_velocity", func() float64 {
		return d.Published().Velocity
	})
	d.settles = s.NewCounter("gotach_needle_settles_total")
}

func (d *Dial) Draw(buf *termui.Buffer) {
	d.Block.Draw(buf)
	area := d.Inner
	if area.Dx() < 3 || area.Dy() < 2 {
		return
	}

	// Braille cells are 2 dots wide and 4 dots high, which on a typical
	// terminal font gives roughly square dots.
	w, h := area.Dx()*2, area.Dy()*4
	c := image.Pt(area.Min.X*2+w/2, area.Min.Y*4+h/2)
	r := float64(minInt(w, h))/2 - 1

	canvas := termui.NewCanvas()
	canvas.Rectangle = area

	for _, t := range d.Gauge.Ticks() {
		l := minorTickLength
		if t.Major {
			l = majorTickLength
		}
		canvas.SetLine(polar(c, r, t.Angle), polar(c, r*(1-l), t.Angle), termui.Color(t.Color))
	}

	snap := d.Gauge.Snapshot()
	if snap.Visible {
		canvas.SetLine(c, polar(c, r*needleLength, snap.Angle), termui.Color(snap.Color))
		canvas.SetPoint(c, d.HubColor)
	}
	canvas.Draw(buf)

	if d.ShowLabels && area.Dx() >= minLabelWidth {
		d.drawLabels(buf, c, r)
	}

	cy := c.Y / 4
	textY := cy + maxInt(1, area.Dy()/5)
	if textY < area.Max.Y {
		d.centerString(buf, snap.Text, d.TextStyle, textY)
	}
	if snap.Unit != "" && textY+1 < area.Max.Y {
		d.centerString(buf, snap.Unit, d.UnitStyle, textY+1)
	}
}

// drawLabels writes the value of every major tick just inside the scale.
func (d *Dial) drawLabels(buf *termui.Buffer, c image.Point, r float64) {
	for _, t := range d.Gauge.Ticks() {
		if !t.Major {
			continue
		}
		label := gauge.ValueString(t.Value)
		p := polar(c, r*(1-majorTickLength)-6, t.Angle)
		x := p.X/2 - runewidth.StringWidth(label)/2
		y := p.Y / 4
		if y < d.Inner.Min.Y || y >= d.Inner.Max.Y || x < d.Inner.Min.X {
			continue
		}
		buf.SetString(label, termui.NewStyle(termui.Color(t.Color)), image.Pt(x, y))
	}
}

func (d *Dial) centerString(buf *termui.Buffer, s string, style termui.Style, y int) {
	x := d.Inner.Min.X + (d.Inner.Dx()-runewidth.StringWidth(s))/2
	buf.SetString(s, style, image.Pt(maxInt(x, d.Inner.Min.X), y))
}

// polar returns the dot r away from c at angle degrees clockwise from north.
func polar(c image.Point, r, angle float64) image.Point {
	rad := angle * math.Pi / 180
	return image.Pt(
		c.X+int(math.Round(r*math.Sin(rad))),
		c.Y-int(math.Round(r*math.Cos(rad))),
	)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
