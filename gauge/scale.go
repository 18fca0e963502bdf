// Package gauge holds the value/angle geometry, range classification and
// needle motion for a single speedometer-style dial. Nothing in here knows
// how the dial is drawn; renderers consume a Snapshot every frame.
package gauge

import (
	"math"
)

// Scale maps values in [StartValue, EndValue] onto an angular sweep. Angles
// are in degrees, clockwise, with 0 pointing north. The sweep leaves a gap of
// 2*StartAngle degrees centred on south.
type Scale struct {
	StartValue   float64
	EndValue     float64
	StartAngle   float64
	Divisions    int
	Subdivisions int

	rotation         float64
	subdivisionValue float64
	subdivisionAngle float64
}

// NewScale validates the configuration and precomputes the tick geometry.
func NewScale(start, end, startAngle float64, divisions, subdivisions int) (*Scale, error) {
	switch {
	case !finite(start) || !finite(end) || !finite(startAngle):
		return nil, &ConfigurationError{Field: "scale", Reason: "must be finite"}
	case end <= start:
		return nil, &ConfigurationError{Field: "scaleend", Reason: "must be greater than scalestart"}
	case divisions < 1:
		return nil, &ConfigurationError{Field: "divisions", Reason: "must be at least 1"}
	case subdivisions < 1:
		return nil, &ConfigurationError{Field: "subdivisions", Reason: "must be at least 1"}
	case startAngle < 0 || startAngle >= 180:
		return nil, &ConfigurationError{Field: "startangle", Reason: "must be in [0, 180)"}
	}
	s := &Scale{
		StartValue:   start,
		EndValue:     end,
		StartAngle:   startAngle,
		Divisions:    divisions,
		Subdivisions: subdivisions,
	}
	s.rotation = math.Mod(startAngle+180, 360)
	s.subdivisionValue = (end - start) / float64(divisions) / float64(subdivisions)
	s.subdivisionAngle = (360 - 2*startAngle) / float64(divisions*subdivisions)
	return s, nil
}

// Rotation is the angle of the scale origin.
func (s *Scale) Rotation() float64 {
	return s.rotation
}

// SubdivisionValue is the value step between two adjacent ticks.
func (s *Scale) SubdivisionValue() float64 {
	return s.subdivisionValue
}

// SubdivisionAngle is the angular step between two adjacent ticks.
func (s *Scale) SubdivisionAngle() float64 {
	return s.subdivisionAngle
}

// AngleForValue returns the needle rotation for v in [0, 360). The value is
// not clamped; callers clamp first if they need to.
func (s *Scale) AngleForValue(v float64) float64 {
	a := math.Mod(s.rotation+(v/s.subdivisionValue)*s.subdivisionAngle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Ticks is the number of tick marks, both ends included.
func (s *Scale) Ticks() int {
	return s.Divisions*s.Subdivisions + 1
}

// TickValue returns the value under tick i. There is no bounds check.
func (s *Scale) TickValue(i int) float64 {
	return float64(i) * s.subdivisionValue
}

// TickAngle returns the angle of tick i.
func (s *Scale) TickAngle(i int) float64 {
	return math.Mod(s.rotation+float64(i)*s.subdivisionAngle, 360)
}

// IsDivisionTick is true for the major ticks, including both ends.
func (s *Scale) IsDivisionTick(i int) bool {
	return i%s.Subdivisions == 0
}

// Clamp limits v to the scale.
func (s *Scale) Clamp(v float64) float64 {
	return math.Max(s.StartValue, math.Min(s.EndValue, v))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
