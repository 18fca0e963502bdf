package gauge

import "fmt"

// Epsilon is the tolerance used when classifying values at the edges of a
// scale.
const Epsilon = 1e-6

// Color is an opaque colour id; renderers decide what it means. The TUI
// treats it as a 256-colour terminal index.
type Color int

// Range is one coloured segment of the scale, covering values up to (but not
// including) UpperBound. The last range also covers its own bound.
type Range struct {
	UpperBound float64
	Color      Color
}

type RangeTable struct {
	ranges []Range
	min    float64
	max    float64
}

// NewRangeTable pairs bounds with colors. Bounds must be strictly increasing
// and the last one must be the scale's end value.
func NewRangeTable(s *Scale, bounds []float64, colors []Color) (*RangeTable, error) {
	if len(bounds) != len(colors) {
		return nil, &ConfigurationError{
			Field:  "ranges",
			Reason: fmt.Sprintf("have %d bounds but %d colors", len(bounds), len(colors)),
		}
	}
	if len(bounds) == 0 {
		return nil, &ConfigurationError{Field: "ranges", Reason: "must not be empty"}
	}
	rt := &RangeTable{
		ranges: make([]Range, len(bounds)),
		min:    s.StartValue,
		max:    s.EndValue,
	}
	for i, b := range bounds {
		if !finite(b) {
			return nil, &ConfigurationError{Field: "ranges", Reason: "bounds must be finite"}
		}
		if i > 0 && b <= bounds[i-1] {
			return nil, &ConfigurationError{
				Field:  "ranges",
				Reason: fmt.Sprintf("bound %g is not greater than %g", b, bounds[i-1]),
			}
		}
		if b <= s.StartValue {
			return nil, &ConfigurationError{
				Field:  "ranges",
				Reason: fmt.Sprintf("bound %g is not above scale start %g", b, s.StartValue),
			}
		}
		rt.ranges[i] = Range{UpperBound: b, Color: colors[i]}
	}
	if last := bounds[len(bounds)-1]; last != s.EndValue {
		return nil, &ConfigurationError{
			Field:  "ranges",
			Reason: fmt.Sprintf("last bound %g must equal scale end %g", last, s.EndValue),
		}
	}
	return rt, nil
}

// SingleRange covers the whole scale with one colour.
func SingleRange(s *Scale, c Color) *RangeTable {
	return &RangeTable{
		ranges: []Range{{UpperBound: s.EndValue, Color: c}},
		min:    s.StartValue,
		max:    s.EndValue,
	}
}

func (rt *RangeTable) Len() int {
	return len(rt.ranges)
}

func (rt *RangeTable) Ranges() []Range {
	rv := make([]Range, len(rt.ranges))
	copy(rv, rt.ranges)
	return rv
}

// BucketFor returns the index of the first range whose bound is above v. The
// scale's end value maps to the last range.
func (rt *RangeTable) BucketFor(v float64) (int, error) {
	if !finite(v) || v < rt.min-Epsilon || v > rt.max+Epsilon {
		return 0, &OutOfRangeError{Value: v, Min: rt.min, Max: rt.max}
	}
	for i, r := range rt.ranges {
		if v < r.UpperBound {
			return i, nil
		}
	}
	return len(rt.ranges) - 1, nil
}

// Color returns the colour of bucket i.
func (rt *RangeTable) Color(i int) Color {
	return rt.ranges[i].Color
}
