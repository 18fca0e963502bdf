package devices

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Random is the demo driver. Once started it produces a uniformly random
// integer in [Min, Max) on every update until Duration has elapsed, then it
// stops itself.
type Random struct {
	Min      int
	Max      int
	Duration time.Duration

	mu      sync.Mutex
	rnd     *rand.Rand
	now     func() time.Time
	started time.Time
	running bool
	value   float64
}

func NewRandom(min, max int, d time.Duration) (*Random, error) {
	if max <= min {
		return nil, fmt.Errorf("drivemax (%d) must be greater than drivemin (%d)", max, min)
	}
	return &Random{
		Min:      min,
		Max:      max,
		Duration: d,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}, nil
}

// Start (re)starts the countdown.
func (r *Random) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = r.now()
	r.running = true
}

func (r *Random) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

// Toggle flips between running and stopped and reports the new state.
func (r *Random) Toggle() bool {
	if r.Running() {
		r.Stop()
		return false
	}
	r.Start()
	return true
}

func (r *Random) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Random) Update() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return ErrIdle
	}
	if r.Duration > 0 && r.now().Sub(r.started) >= r.Duration {
		r.running = false
		return ErrIdle
	}
	r.value = float64(r.Min + r.rnd.Intn(r.Max-r.Min))
	return nil
}

func (r *Random) Value() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

func (r *Random) EnableMetrics(s *metrics.Set) {
	s.NewGauge(makeName("source", "random"), func() float64 {
		return r.Value()
	})
	s.NewGauge(makeName("source", "random", "running"), func() float64 {
		if r.Running() {
			return 1
		}
		return 0
	})
}
