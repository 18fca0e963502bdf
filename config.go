package gotach

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/shibukawa/configdir"
	"github.com/xxxserxxx/gotach/gauge"
	"github.com/xxxserxxx/lingo/v2"
)

//go:embed "dicts/*.toml"
var Dicts embed.FS

// CONFFILE is the name of the default config file
const CONFFILE = "gotach.conf"

// STATEFILE holds the needle state between runs, in the cache folder.
const STATEFILE = "gotach.state"

type Config struct {
	ConfigDir configdir.ConfigDir

	ScaleStart   float64
	ScaleEnd     float64
	StartAngle   float64
	Divisions    int
	Subdivisions int
	Ranges       []float64
	RangeColors  []gauge.Color
	Unit         string
	Text         string

	Source         string
	SourceArg      string
	UpdateInterval time.Duration
	FrameInterval  time.Duration
	DriveDuration  time.Duration
	DriveMin       int
	DriveMax       int

	HelpVisible bool
	Statusbar   bool
	Headless    bool
	Resume      bool
	MaxLogSize  int64
	ExportPort  string
	Metrics     *metrics.Set
	ConfigFile  string

	// StateFile overrides the default needle state location.
	StateFile string
	Tr        lingo.Translations
}

func AllSources() []string {
	return []string{"random", "cpu", "mem", "temp", "batt", "remote"}
}

func NewConfig() Config {
	cd := configdir.New("", "gotach")
	cd.LocalPath, _ = filepath.Abs(".")
	conf := Config{
		ConfigDir:      cd,
		ScaleStart:     0,
		ScaleEnd:       100,
		StartAngle:     60,
		Divisions:      5,
		Subdivisions:   5,
		Source:         "random",
		UpdateInterval: time.Second,
		FrameInterval:  40 * time.Millisecond,
		DriveDuration:  30 * time.Second,
		DriveMin:       10,
		DriveMax:       60,
		Statusbar:      true,
		MaxLogSize:     5000000,
		Metrics:        metrics.NewSet(),
	}
	folder := conf.ConfigDir.QueryFolderContainsFile(CONFFILE)
	if folder != nil {
		conf.ConfigFile = filepath.Join(folder.Path, CONFFILE)
	}
	return conf
}

func (conf *Config) Load() error {
	var in []byte
	if conf.ConfigFile == "" {
		return nil
	}
	var err error
	if _, err = os.Stat(conf.ConfigFile); os.IsNotExist(err) {
		// Check for the file in the usual suspects
		folder := conf.ConfigDir.QueryFolderContainsFile(conf.ConfigFile)
		if folder == nil {
			return nil
		}
		conf.ConfigFile = filepath.Join(folder.Path, conf.ConfigFile)
	}
	if in, err = os.ReadFile(conf.ConfigFile); err != nil {
		return err
	}
	return load(bytes.NewReader(in), conf)
}

func load(in io.Reader, conf *Config) error {
	r := bufio.NewScanner(in)
	var lineNo int
	for r.Scan() {
		lineNo++
		l := strings.TrimSpace(r.Text())
		if len(l) == 0 {
			continue
		}
		if l[0] == '#' {
			continue
		}
		kv := strings.SplitN(l, "=", 2)
		if len(kv) != 2 {
			return errors.New(conf.Tr.Value("config.err.configsyntax", l))
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])
		ln := strconv.Itoa(lineNo)
		var err error
		switch key {
		default:
			log.Print(conf.Tr.Value("config.err.unknown", key))
		case scalestart:
			conf.ScaleStart, err = strconv.ParseFloat(val, 64)
		case scaleend:
			conf.ScaleEnd, err = strconv.ParseFloat(val, 64)
		case startangle:
			conf.StartAngle, err = strconv.ParseFloat(val, 64)
		case divisions:
			conf.Divisions, err = strconv.Atoi(val)
		case subdivisions:
			conf.Subdivisions, err = strconv.Atoi(val)
		case ranges:
			conf.Ranges, conf.RangeColors, err = ParseRanges(val)
		case unit:
			conf.Unit = val
		case text:
			conf.Text = val
		case source:
			conf.Source = strings.ToLower(val)
		case sourcearg:
			conf.SourceArg = val
		case updateinterval:
			conf.UpdateInterval, err = time.ParseDuration(val)
		case frameinterval:
			conf.FrameInterval, err = time.ParseDuration(val)
		case driveduration:
			conf.DriveDuration, err = time.ParseDuration(val)
		case drivemin:
			conf.DriveMin, err = strconv.Atoi(val)
		case drivemax:
			conf.DriveMax, err = strconv.Atoi(val)
		case helpvisible:
			conf.HelpVisible, err = strconv.ParseBool(val)
		case statusbar:
			conf.Statusbar, err = strconv.ParseBool(val)
		case headless:
			conf.Headless, err = strconv.ParseBool(val)
		case resume:
			conf.Resume, err = strconv.ParseBool(val)
		case maxlogsize:
			conf.MaxLogSize, err = strconv.ParseInt(val, 10, 64)
		case export:
			conf.ExportPort = val
		}
		if err != nil {
			return errors.New(conf.Tr.Value("config.err.line", ln, err.Error()))
		}
	}
	return r.Err()
}

// ParseRanges reads a list of BOUND:COLOR pairs, e.g. "50:2,80:3,100:1".
// Colors are terminal color indexes.
func ParseRanges(s string) ([]float64, []gauge.Color, error) {
	parts := strings.Split(s, ",")
	bounds := make([]float64, 0, len(parts))
	colors := make([]gauge.Color, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		bc := strings.Split(p, ":")
		if len(bc) != 2 {
			return nil, nil, fmt.Errorf("bad range %q; expected BOUND:COLOR", p)
		}
		b, err := strconv.ParseFloat(bc[0], 64)
		if err != nil {
			return nil, nil, err
		}
		c, err := strconv.Atoi(bc[1])
		if err != nil {
			return nil, nil, err
		}
		bounds = append(bounds, b)
		colors = append(colors, gauge.Color(c))
	}
	return bounds, colors, nil
}

// The stock ranges, with bounds as fractions of the scale.
var (
	defaultRangeFractions = []float64{0.16, 0.25, 0.40, 1}
	defaultRangeColors    = []gauge.Color{2, 3, 208, 1}
)

// DefaultRanges spreads the stock ranges over [start, end]. The last bound is
// exactly end.
func DefaultRanges(start, end float64) ([]float64, []gauge.Color) {
	bounds := make([]float64, len(defaultRangeFractions))
	for i, f := range defaultRangeFractions {
		bounds[i] = start + f*(end-start)
	}
	bounds[len(bounds)-1] = end
	return bounds, append([]gauge.Color(nil), defaultRangeColors...)
}

// EffectiveRanges returns Ranges and RangeColors, or the stock ranges for the
// configured scale when neither is set.
func (conf *Config) EffectiveRanges() ([]float64, []gauge.Color) {
	if len(conf.Ranges) == 0 && len(conf.RangeColors) == 0 {
		return DefaultRanges(conf.ScaleStart, conf.ScaleEnd)
	}
	return conf.Ranges, conf.RangeColors
}

// FormatRanges is the inverse of ParseRanges.
func FormatRanges(bounds []float64, colors []gauge.Color) string {
	parts := make([]string, 0, len(bounds))
	for i, b := range bounds {
		if i >= len(colors) {
			break
		}
		parts = append(parts, fmt.Sprintf("%s:%d", strconv.FormatFloat(b, 'g', -1, 64), colors[i]))
	}
	return strings.Join(parts, ",")
}

// NewGauge validates the scale and range settings and builds a gauge from
// them. Errors are fatal to startup.
func (conf *Config) NewGauge(r gauge.Redrawer) (*gauge.Gauge, error) {
	s, err := gauge.NewScale(conf.ScaleStart, conf.ScaleEnd, conf.StartAngle, conf.Divisions, conf.Subdivisions)
	if err != nil {
		return nil, err
	}
	bounds, colors := conf.EffectiveRanges()
	rt, err := gauge.NewRangeTable(s, bounds, colors)
	if err != nil {
		return nil, err
	}
	g := gauge.New(s, rt, r)
	g.Unit = conf.Unit
	g.Text = conf.Text
	return g, nil
}

// StatePath is where the needle state is kept between runs.
func (conf *Config) StatePath() string {
	if conf.StateFile != "" {
		return conf.StateFile
	}
	return filepath.Join(conf.ConfigDir.QueryCacheFolder().Path, STATEFILE)
}

// Write serializes the configuration to a file.
// The configuration written is based on the loaded configuration, plus any
// command-line changes, so it can be used to update an existing configuration
// file.  The file will be written to the specificed `-C` argument file,
// if one is set; otherwise, it'll create one in the user's config directory.
func (conf *Config) Write() (string, error) {
	var dir *configdir.Config
	var file string = CONFFILE
	if conf.ConfigFile == "" {
		ds := conf.ConfigDir.QueryFolders(configdir.Global)
		if len(ds) == 0 {
			ds = conf.ConfigDir.QueryFolders(configdir.Local)
			if len(ds) == 0 {
				return "", errors.New("error locating config folders")
			}
		}
		ds[0].CreateParentDir(CONFFILE)
		dir = ds[0]
	} else {
		dir = &configdir.Config{}
		dir.Path = filepath.Dir(conf.ConfigFile)
		file = filepath.Base(conf.ConfigFile)
	}
	marshalled := marshal(conf)
	err := dir.WriteFile(file, marshalled)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir.Path, file), nil
}

func marshal(c *Config) []byte {
	buff := bytes.NewBuffer(nil)
	fmt.Fprintln(buff, "# The value at the start and the end of the scale")
	fmt.Fprintf(buff, "%s=%s\n", scalestart, strconv.FormatFloat(c.ScaleStart, 'g', -1, 64))
	fmt.Fprintf(buff, "%s=%s\n", scaleend, strconv.FormatFloat(c.ScaleEnd, 'g', -1, 64))
	fmt.Fprintln(buff, "# Half the width, in degrees, of the gap at the bottom of the dial")
	fmt.Fprintf(buff, "%s=%s\n", startangle, strconv.FormatFloat(c.StartAngle, 'g', -1, 64))
	fmt.Fprintln(buff, "# Major and minor tick counts")
	fmt.Fprintf(buff, "%s=%d\n", divisions, c.Divisions)
	fmt.Fprintf(buff, "%s=%d\n", subdivisions, c.Subdivisions)
	fmt.Fprintln(buff, "# Colored ranges, as BOUND:COLOR pairs. The last bound must be the scale end.")
	fmt.Fprintln(buff, "# If unset, the stock ranges are spread over the scale.")
	if len(c.Ranges) == 0 && len(c.RangeColors) == 0 {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", ranges, FormatRanges(c.EffectiveRanges()))
	fmt.Fprintln(buff, "# Unit shown under the value")
	fmt.Fprintf(buff, "%s=%s\n", unit, c.Unit)
	fmt.Fprintln(buff, "# If set, shown instead of the value")
	if c.Text == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", text, c.Text)
	fmt.Fprintln(buff, "# What drives the needle. See `--list sources`")
	fmt.Fprintf(buff, "%s=%s\n", source, c.Source)
	fmt.Fprintln(buff, "# Source argument: sensor glob for temp, URL#metric for remote")
	if c.SourceArg == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", sourcearg, c.SourceArg)
	fmt.Fprintln(buff, "# How often the source is polled")
	fmt.Fprintf(buff, "%s=%s\n", updateinterval, c.UpdateInterval)
	fmt.Fprintln(buff, "# How often the dial is redrawn")
	fmt.Fprintf(buff, "%s=%s\n", frameinterval, c.FrameInterval)
	fmt.Fprintln(buff, "# How long the random driver runs once started, and its value range")
	fmt.Fprintf(buff, "%s=%s\n", driveduration, c.DriveDuration)
	fmt.Fprintf(buff, "%s=%d\n", drivemin, c.DriveMin)
	fmt.Fprintf(buff, "%s=%d\n", drivemax, c.DriveMax)
	fmt.Fprintln(buff, "# If true, start the UI with the help visible")
	fmt.Fprintf(buff, "%s=%t\n", helpvisible, c.HelpVisible)
	fmt.Fprintln(buff, "# If true, display a status bar")
	fmt.Fprintf(buff, "%s=%t\n", statusbar, c.Statusbar)
	fmt.Fprintln(buff, "# Set headless to true to disable TUI; most useful with `export`")
	fmt.Fprintf(buff, "%s=%t\n", headless, c.Headless)
	fmt.Fprintln(buff, "# If true, the needle picks up where the last run left it")
	fmt.Fprintf(buff, "%s=%t\n", resume, c.Resume)
	fmt.Fprintln(buff, "# The maximum log file size, in bytes")
	fmt.Fprintf(buff, "%s=%d\n", maxlogsize, c.MaxLogSize)
	fmt.Fprintln(buff, "# If set, export data as Promethius metrics on the interface:port.\n# E.g., `:8080` (colon is required, interface is not)")
	if c.ExportPort == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", export, c.ExportPort)
	return buff.Bytes()
}

const (
	scalestart     = "scalestart"
	scaleend       = "scaleend"
	startangle     = "startangle"
	divisions      = "divisions"
	subdivisions   = "subdivisions"
	ranges         = "ranges"
	unit           = "unit"
	text           = "text"
	source         = "source"
	sourcearg      = "sourcearg"
	updateinterval = "updateinterval"
	frameinterval  = "frameinterval"
	driveduration  = "driveduration"
	drivemin       = "drivemin"
	drivemax       = "drivemax"
	helpvisible    = "helpvisible"
	statusbar      = "statusbar"
	headless       = "headless"
	resume         = "resume"
	maxlogsize     = "maxlogsize"
	export         = "metricsexportport"
)
