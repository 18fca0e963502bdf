package devices

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/distatus/battery"
)

type BatteryInfo struct {
	Full     float64
	Current  float64
	Charging bool
}

// Batteries reports how full the batteries are, in percent, weighted by
// battery size.
type Batteries struct {
	Data []BatteryInfo

	percentFull reading
}

func LocalBatteries() *Batteries {
	return &Batteries{Data: make([]BatteryInfo, 0)}
}

func (b *Batteries) Update() error {
	bats, err := battery.GetAll()
	if err != nil && len(bats) == 0 {
		return fmt.Errorf("error setting up batteries: %v", err)
	}
	infos := make([]BatteryInfo, 0, len(bats))
	for _, bat := range bats {
		if bat == nil {
			continue
		}
		infos = append(infos, BatteryInfo{
			Full:     bat.Full,
			Current:  bat.Current,
			Charging: bat.State == battery.Charging,
		})
	}
	return b.process(infos)
}

func (b *Batteries) process(infos []BatteryInfo) error {
	if len(infos) < 1 {
		return fmt.Errorf("no batteries")
	}
	fullSum := 0.0
	currentSum := 0.0
	for _, bat := range infos {
		fullSum += bat.Full
		currentSum += bat.Current
	}
	if fullSum == 0 {
		return fmt.Errorf("batteries report no capacity")
	}
	b.Data = infos
	b.percentFull.Store(currentSum / fullSum * 100)
	return nil
}

func (b *Batteries) Value() float64 {
	return b.percentFull.Load()
}

func (b *Batteries) EnableMetrics(s *metrics.Set) {
	s.NewGauge(makeName("source", "batt"), b.Value)
}
