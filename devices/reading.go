package devices

import (
	"math"
	"sync/atomic"
)

// reading is the latest value of a source. It is written by the polling
// goroutine and read by the metrics exporter.
type reading struct {
	bits atomic.Uint64
}

func (r *reading) Store(v float64) {
	r.bits.Store(math.Float64bits(v))
}

func (r *reading) Load() float64 {
	return math.Float64frombits(r.bits.Load())
}
