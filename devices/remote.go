package devices

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// DefaultRemoteMetric is the needle target another gotach exports,
// so instances can be chained.
const DefaultRemoteMetric = "gotach_needle_target"

// Remote scrapes a prometheus text endpoint and follows one metric.
type Remote struct {
	URL    string
	Metric string

	client *http.Client
	value  reading
}

// SplitRemoteArg splits "URL#metric". The metric defaults to
// DefaultRemoteMetric.
func SplitRemoteArg(arg string) (string, string) {
	u, m, _ := strings.Cut(arg, "#")
	if m == "" {
		m = DefaultRemoteMetric
	}
	return u, m
}

func NewRemote(u, metric string, timeout time.Duration) (*Remote, error) {
	if _, err := url.Parse(u); err != nil {
		return nil, fmt.Errorf("bad remote URL %s: %w", u, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{
		URL:    u,
		Metric: metric,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (rm *Remote) Update() error {
	res, err := rm.client.Get(rm.URL)
	if err != nil {
		return fmt.Errorf("error pulling remote gotach: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unsuccessful connection to %s: http status %s", rm.URL, res.Status)
	}
	return rm.process(res.Body)
}

// process scans lines of the form `name{labels} value [timestamp]` for the
// followed metric. The first match wins.
func (rm *Remote) process(in io.Reader) error {
	data := bufio.NewScanner(in)
	for data.Scan() {
		line := strings.TrimSpace(data.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		name := line
		if i := strings.IndexAny(line, "{ "); i >= 0 {
			name = line[:i]
		}
		if name != rm.Metric {
			continue
		}
		rest := line[len(name):]
		if strings.HasPrefix(rest, "{") {
			end := strings.Index(rest, "}")
			if end < 0 {
				log.Printf(`bad data; unterminated labels in "%s"`, line)
				continue
			}
			rest = rest[end+1:]
		}
		fields := strings.Fields(rest)
		if len(fields) < 1 {
			log.Printf(`bad data; not enough columns in "%s"`, line)
			continue
		}
		val, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			log.Print(err)
			continue
		}
		rm.value.Store(val)
		return nil
	}
	if err := data.Err(); err != nil {
		return err
	}
	return fmt.Errorf("metric %s not found at %s", rm.Metric, rm.URL)
}

func (rm *Remote) Value() float64 {
	return rm.value.Load()
}

func (rm *Remote) EnableMetrics(s *metrics.Set) {
	s.NewGauge(makeName("source", "remote"), rm.Value)
}
