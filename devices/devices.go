// Package devices provides the sources that drive the gauge needle: a random
// demo driver and a handful of local and remote sensors.
package devices

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/xxxserxxx/gotach"
)

// ErrIdle is returned by Update when a source has nothing to report, e.g. a
// stopped demo driver. Spawn skips these quietly.
var ErrIdle = errors.New("source idle")

type Source interface {
	Update() error
	Value() float64
	EnableMetrics(*metrics.Set)
}

// Startup builds the source named by c.Source. SourceArg is passed to the
// sources that need it: a sensor glob for temp, URL#metric for remote.
func Startup(c gotach.Config) (Source, error) {
	switch strings.ToLower(c.Source) {
	case "random", "":
		r, err := NewRandom(c.DriveMin, c.DriveMax, c.DriveDuration)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "cpu":
		return LocalCPU(), nil
	case "mem":
		return LocalMemory(), nil
	case "temp":
		return LocalTemperature(c.SourceArg), nil
	case "batt", "power":
		return LocalBatteries(), nil
	case "remote":
		u, metric := SplitRemoteArg(c.SourceArg)
		if u == "" {
			return nil, fmt.Errorf("remote source needs a URL, e.g. sourcearg=http://host:8080/metrics#%s", DefaultRemoteMetric)
		}
		rm, err := NewRemote(u, metric, c.UpdateInterval)
		if err != nil {
			return nil, err
		}
		return rm, nil
	}
	return nil, errors.New(c.Tr.Value("error.unknownsource", c.Source))
}

// Spawn polls src every interval, starting immediately, and delivers each
// reading on the returned channel. The channel is closed when ctx is done.
func Spawn(ctx context.Context, src Source, interval time.Duration) <-chan float64 {
	out := make(chan float64)
	go func() {
		defer close(out)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			err := src.Update()
			switch {
			case errors.Is(err, ErrIdle):
			case err != nil:
				log.Print(err)
			default:
				select {
				case out <- src.Value():
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-tick.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func Sources() []string {
	return gotach.AllSources()
}
