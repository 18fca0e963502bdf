package devices

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/shirou/gopsutil/v3/host"
)

// Temperature reports the hottest of the sensors matching a filter.
//
// The filter is a comma separated list of globs matched against the sensor
// key, e.g. "coretemp*". Entries prefixed with `!` exclude sensors, and
// exclusion overrides inclusion. An empty filter, or one holding only
// exclusions, includes every other sensor.
type Temperature struct {
	includes []string
	excludes []string
	temps    map[string]float64
	hottest  reading
}

func LocalTemperature(filter string) *Temperature {
	t := &Temperature{temps: make(map[string]float64)}
	for _, f := range strings.Split(filter, ",") {
		f = strings.TrimSpace(f)
		switch {
		case f == "":
		case strings.HasPrefix(f, "!"):
			t.excludes = append(t.excludes, strings.TrimPrefix(f, "!"))
		default:
			t.includes = append(t.includes, f)
		}
	}
	return t
}

func (t *Temperature) matches(name string) bool {
	for _, x := range t.excludes {
		if ok, _ := filepath.Match(x, name); ok {
			return false
		}
	}
	if len(t.includes) == 0 {
		return true
	}
	for _, i := range t.includes {
		if ok, _ := filepath.Match(i, name); ok {
			return true
		}
	}
	return false
}

func (t *Temperature) Update() error {
	sensors, err := host.SensorsTemperatures()
	if err != nil && len(sensors) == 0 {
		return err
	}
	return t.process(sensors)
}

func (t *Temperature) process(sensors []host.TemperatureStat) error {
	tmps := make(map[string]float64)
	first := true
	hottest := 0.0
	for _, sensor := range sensors {
		if !t.matches(sensor.SensorKey) {
			continue
		}
		tmps[sensor.SensorKey] = sensor.Temperature
		if first || sensor.Temperature > hottest {
			hottest = sensor.Temperature
			first = false
		}
	}
	t.temps = tmps
	if first {
		return fmt.Errorf("no temperature sensors match the filter")
	}
	t.hottest.Store(hottest)
	return nil
}

func (t *Temperature) Value() float64 {
	return t.hottest.Load()
}

func (t *Temperature) Temps() map[string]float64 {
	return t.temps
}

func (t *Temperature) EnableMetrics(s *metrics.Set) {
	s.NewGauge(makeName("source", "temp"), t.Value)
}

// SensorNames lists every thermometer gopsutil can see.
func SensorNames() []string {
	sensors, err := host.SensorsTemperatures()
	if err != nil {
		log.Printf("gopsutil reports %s", err)
		if len(sensors) == 0 {
			return []string{}
		}
	}
	rv := make([]string, len(sensors))
	for i, sensor := range sensors {
		rv[i] = sensor.SensorKey
	}
	sort.Strings(rv)
	return rv
}
