package devices

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
)

// CPU reports the average load across all CPUs, in percent.
type CPU struct {
	average reading
}

func LocalCPU() *CPU {
	c := &CPU{}
	// The first call primes gopsutil's delta; its value is meaningless.
	cpu.Percent(0, false)
	return c
}

func (c *CPU) Update() error {
	vals, err := cpu.Percent(0, false)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return ErrIdle
	}
	c.average.Store(vals[0])
	return nil
}

func (c *CPU) Value() float64 {
	return c.average.Load()
}

func (c *CPU) EnableMetrics(s *metrics.Set) {
	s.NewGauge(makeName("source", "cpu"), c.Value)
}
