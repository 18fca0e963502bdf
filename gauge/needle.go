package gauge

import (
	"math"
	"time"
)

const (
	// Settle is the distance from the target at which the needle counts as
	// arrived.
	Settle = 0.01
	// Stiffness scales the remaining error into acceleration.
	Stiffness = 5.0
	// Idle is the LastMovedAt value of a needle that is not moving.
	Idle int64 = -1
)

// Redrawer is notified whenever the needle wants another frame. Calls may be
// coalesced by the host.
type Redrawer interface {
	RequestRedraw()
}

// RedrawFunc adapts a plain function to Redrawer.
type RedrawFunc func()

func (f RedrawFunc) RequestRedraw() {
	f()
}

type nopRedrawer struct{}

func (nopRedrawer) RequestRedraw() {}

// State is everything needed to resume needle motion. LastMovedAt is in unix
// milliseconds, or Idle.
type State struct {
	Initialized  bool    `yaml:"initialized"`
	Velocity     float64 `yaml:"velocity"`
	Acceleration float64 `yaml:"acceleration"`
	LastMovedAt  int64   `yaml:"lastmoved"`
	Current      float64 `yaml:"current"`
	Target       float64 `yaml:"target"`
}

// NewState returns a needle at rest at v that has never been given a target.
func NewState(v float64) State {
	return State{LastMovedAt: Idle, Current: v, Target: v}
}

// Moving is true between the first frame after a target change and arrival.
func (s State) Moving() bool {
	return s.LastMovedAt != Idle
}

// Needle moves a value toward a target with a proportional controller: the
// acceleration is always Stiffness times the remaining error. It is not safe
// for concurrent use; all calls are expected on the render goroutine.
type Needle struct {
	state    State
	scale    *Scale
	redrawer Redrawer
}

// NewNeedle creates an idle needle at the start of scale. A nil scale disables
// target clamping; a nil redrawer discards redraw requests.
func NewNeedle(scale *Scale, r Redrawer) *Needle {
	if r == nil {
		r = nopRedrawer{}
	}
	start := 0.0
	if scale != nil {
		start = scale.StartValue
	}
	return &Needle{state: NewState(start), scale: scale, redrawer: r}
}

// SetTarget points the needle at v. Motion in progress keeps its velocity.
func (n *Needle) SetTarget(v float64) error {
	if !finite(v) {
		return &InvalidValueError{Value: v}
	}
	if n.scale != nil {
		v = n.scale.Clamp(v)
	}
	n.state.Target = v
	n.state.Initialized = true
	n.redrawer.RequestRedraw()
	return nil
}

// Advance integrates the motion up to now and returns the new state.
func (n *Needle) Advance(now time.Time) State {
	s := &n.state
	if math.Abs(s.Current-s.Target) <= Settle {
		return *s
	}
	ms := now.UnixMilli()
	if s.LastMovedAt == Idle {
		// First frame of a motion: only record t0.
		s.LastMovedAt = ms
		n.redrawer.RequestRedraw()
		return *s
	}
	if ms <= s.LastMovedAt {
		return *s
	}
	dt := float64(ms-s.LastMovedAt) / 1000.0
	direction := sign(s.Velocity)
	s.Acceleration = Stiffness * (s.Target - s.Current)
	s.Current += s.Velocity * dt
	s.Velocity += s.Acceleration * dt

	if (s.Target-s.Current)*direction < Settle*direction {
		s.Current = s.Target
		s.Velocity = 0
		s.Acceleration = 0
		s.LastMovedAt = Idle
	} else {
		s.LastMovedAt = ms
		n.redrawer.RequestRedraw()
	}
	return *s
}

// Settled is true when the needle is within Settle of its target.
func (n *Needle) Settled() bool {
	return math.Abs(n.state.Current-n.state.Target) <= Settle
}

func (n *Needle) State() State {
	return n.state
}

// Restore replaces the needle state verbatim.
func (n *Needle) Restore(s State) {
	n.state = s
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}
