package gauge

import (
	"fmt"
	"time"
)

// Gauge ties a Scale, its RangeTable and one Needle together.
type Gauge struct {
	Scale  *Scale
	Ranges *RangeTable
	Needle *Needle
	// Text, if set, replaces the numeric value in snapshots.
	Text string
	Unit string
}

func New(s *Scale, rt *RangeTable, r Redrawer) *Gauge {
	if rt == nil {
		rt = SingleRange(s, 0)
	}
	return &Gauge{
		Scale:  s,
		Ranges: rt,
		Needle: NewNeedle(s, r),
	}
}

// SetTargetValue is the entry point for whatever drives the gauge.
func (g *Gauge) SetTargetValue(v float64) error {
	return g.Needle.SetTarget(v)
}

func (g *Gauge) Advance(now time.Time) State {
	return g.Needle.Advance(now)
}

// Snapshot is what a renderer needs for one frame.
type Snapshot struct {
	Angle   float64
	Bucket  int
	Color   Color
	Value   float64
	Target  float64
	Text    string
	Unit    string
	Visible bool
}

func (g *Gauge) Snapshot() Snapshot {
	st := g.Needle.State()
	// Restored state may come from a different scale.
	v := g.Scale.Clamp(st.Current)
	b, err := g.Ranges.BucketFor(v)
	if err != nil {
		b = g.Ranges.Len() - 1
	}
	text := g.Text
	if text == "" {
		text = ValueString(st.Current)
	}
	return Snapshot{
		Angle:   g.Scale.AngleForValue(v),
		Bucket:  b,
		Color:   g.Ranges.Color(b),
		Value:   st.Current,
		Target:  st.Target,
		Text:    text,
		Unit:    g.Unit,
		Visible: st.Initialized,
	}
}

// Tick describes one scale mark.
type Tick struct {
	Value float64
	Angle float64
	Major bool
	Color Color
}

func (g *Gauge) Ticks() []Tick {
	ticks := make([]Tick, g.Scale.Ticks())
	for i := range ticks {
		v := g.Scale.TickValue(i)
		b, err := g.Ranges.BucketFor(g.Scale.Clamp(v))
		if err != nil {
			b = g.Ranges.Len() - 1
		}
		ticks[i] = Tick{
			Value: v,
			Angle: g.Scale.TickAngle(i),
			Major: g.Scale.IsDivisionTick(i),
			Color: g.Ranges.Color(b),
		}
	}
	return ticks
}

// ValueString truncates v toward zero for display.
func ValueString(v float64) string {
	return fmt.Sprintf("%d", int64(v))
}
