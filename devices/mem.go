package devices

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/shirou/gopsutil/v3/mem"
)

// Memory reports main memory use.
type Memory struct {
	total       reading
	used        reading
	usedPercent reading
}

func LocalMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Update() error {
	mainMemory, err := mem.VirtualMemory()
	if err != nil {
		return err
	}
	m.total.Store(float64(mainMemory.Total))
	m.used.Store(float64(mainMemory.Used))
	m.usedPercent.Store(mainMemory.UsedPercent)
	return nil
}

func (m *Memory) Value() float64 {
	return m.usedPercent.Load()
}

func (m *Memory) EnableMetrics(s *metrics.Set) {
	s.NewGauge(makeName("source", "memory", "total"), m.total.Load)
	s.NewGauge(makeName("source", "memory", "used"), m.used.Load)
}
