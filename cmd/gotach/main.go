package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/cloudfoundry-attic/jibber_jabber"
	"github.com/shibukawa/configdir"
	"github.com/xxxserxxx/lingo/v2"
	"github.com/xxxserxxx/opflag"

	"github.com/xxxserxxx/gotach"
	"github.com/xxxserxxx/gotach/devices"
	"github.com/xxxserxxx/gotach/logging"
	"github.com/xxxserxxx/gotach/tui"
	"github.com/xxxserxxx/gotach/widgets"
)

var (
	// Version of the program; set during build from git tags
	Version = "0.0.0"
	// BuildDate when the program was compiled; set during build
	BuildDate    = "Hadean"
	conf         gotach.Config
	stderrLogger = log.New(os.Stderr, "", 0)
	tr           lingo.Translations
)

func parseArgs() error {
	help := opflag.BoolP("help", "h", false, tr.Value("args.help"))
	version := opflag.BoolP("version", "v", false, tr.Value("args.version"))
	opflag.Float64VarP(&conf.ScaleStart, "start", "", conf.ScaleStart, tr.Value("args.start"))
	opflag.Float64VarP(&conf.ScaleEnd, "end", "", conf.ScaleEnd, tr.Value("args.end"))
	opflag.Float64VarP(&conf.StartAngle, "angle", "", conf.StartAngle, tr.Value("args.angle"))
	opflag.IntVarP(&conf.Divisions, "divisions", "d", conf.Divisions, tr.Value("args.divisions"))
	opflag.IntVarP(&conf.Subdivisions, "subdivisions", "", conf.Subdivisions, tr.Value("args.subdivisions"))
	rangeSpec := opflag.String("ranges", "", tr.Value("args.ranges"))
	opflag.StringVarP(&conf.Unit, "unit", "u", conf.Unit, tr.Value("args.unit"))
	opflag.StringVarP(&conf.Source, "source", "S", conf.Source, tr.Value("args.source"))
	opflag.StringVarP(&conf.SourceArg, "source-arg", "a", conf.SourceArg, tr.Value("args.sourcearg"))
	opflag.DurationVarP(&conf.UpdateInterval, "rate", "r", conf.UpdateInterval, tr.Value("args.rate"))
	opflag.DurationVarP(&conf.FrameInterval, "frame", "", conf.FrameInterval, tr.Value("args.frame"))
	opflag.DurationVarP(&conf.DriveDuration, "duration", "", conf.DriveDuration, tr.Value("args.duration"))
	opflag.BoolVarP(&conf.Statusbar, "statusbar", "s", conf.Statusbar, tr.Value("args.statusbar"))
	opflag.BoolVarP(&conf.Resume, "resume", "", conf.Resume, tr.Value("args.resume"))
	opflag.StringVarP(&conf.ExportPort, "export", "x", conf.ExportPort, tr.Value("args.export"))
	opflag.BoolVarP(&conf.Headless, "headless", "", conf.Headless, tr.Value("args.headless"))
	opflag.StringP("", "C", "", tr.Value("args.conffile"))
	list := opflag.String("list", "", tr.Value("args.list"))
	wc := opflag.Bool("write-config", false, tr.Value("args.write"))
	opflag.SortFlags = false
	opflag.Usage = func() {
		fmt.Fprint(os.Stderr, tr.Value("usage", os.Args[0]))
		opflag.PrintDefaults()
	}
	opflag.Parse()
	if *version {
		fmt.Printf("gotach %s (%s)\n", Version, BuildDate)
		os.Exit(0)
	}
	if *help {
		opflag.Usage()
		os.Exit(0)
	}
	if *rangeSpec != "" {
		var err error
		conf.Ranges, conf.RangeColors, err = gotach.ParseRanges(*rangeSpec)
		if err != nil {
			return err
		}
	}
	if *list != "" {
		switch *list {
		case "sources":
			fmt.Println(strings.Join(devices.Sources(), "\n"))
		case "sensors":
			fmt.Println(strings.Join(devices.SensorNames(), "\n"))
		case "keys":
			fmt.Println(tr.Value("help.help"))
		case "paths":
			fmt.Println(tr.Value("help.paths"))
			paths := make([]string, 0)
			for _, d := range conf.ConfigDir.QueryFolders(configdir.All) {
				paths = append(paths, d.Path)
			}
			fmt.Println(strings.Join(paths, "\n"))
			fmt.Println()
			fmt.Println(tr.Value("help.log", filepath.Join(conf.ConfigDir.QueryCacheFolder().Path, logging.LOGFILE)))
		case "langs":
			err := fs.WalkDir(gotach.Dicts, ".", func(pth string, info fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return nil
				}
				fileName := info.Name()
				if strings.HasSuffix(fileName, ".toml") {
					fmt.Println(strings.TrimSuffix(fileName, ".toml"))
				}
				return nil
			})
			if err != nil {
				return err
			}
		default:
			fmt.Print(tr.Value("error.unknownopt", *list))
			os.Exit(1)
		}
		os.Exit(0)
	}
	if *wc {
		path, err := conf.Write()
		if err != nil {
			fmt.Println(tr.Value("error.writefail", err.Error()))
			os.Exit(1)
		}
		fmt.Println(tr.Value("help.written", path))
		os.Exit(0)
	}
	return nil
}

func main() {
	var ec int
	defer func() {
		if ec > 0 {
			if ec < 2 {
				logpath := filepath.Join(conf.ConfigDir.QueryCacheFolder().Path, logging.LOGFILE)
				fmt.Println(tr.Value("error.checklog", logpath))
				bs, _ := os.ReadFile(logpath)
				fmt.Println(string(bs))
			}
		}
		os.Exit(ec)
	}()

	ling, err := lingo.New("en_US", ".", gotach.Dicts)
	if err != nil {
		fmt.Printf("failed to load language files: %s\n", err)
		ec = 2
		return
	}
	lang, err := jibber_jabber.DetectIETF()
	if err != nil {
		lang = "en_US"
	}
	lang = strings.Replace(lang, "-", "_", -1)
	// Get the locale from the os
	tr = ling.TranslationsForLocale(lang)
	widgets.SetTr(tr)
	conf = gotach.NewConfig()
	conf.Tr = tr
	// Find the config file; look in (1) local, (2) user, (3) global
	// Check the last argument first
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	cfg := fs.String("C", "", tr.Value("configfile"))
	fs.SetOutput(bufio.NewWriter(nil))
	fs.Parse(os.Args[1:])
	if *cfg != "" {
		conf.ConfigFile = *cfg
	}
	err = conf.Load()
	if err != nil {
		fmt.Println(tr.Value("error.configparse", err.Error()))
		ec = 2
		return
	}
	// Override with command line arguments
	err = parseArgs()
	if err != nil {
		fmt.Println(tr.Value("error.cliparse", err.Error()))
		ec = 2
		return
	}

	logfile, err := logging.New(conf)
	if err != nil {
		fmt.Println(tr.Value("logsetup", err.Error()))
		ec = 2
		return
	}
	defer logfile.Close()

	src, err := devices.Startup(conf)
	if err != nil {
		stderrLogger.Print(err)
		ec = 1
		return
	}

	if conf.ExportPort != "" {
		src.EnableMetrics(conf.Metrics)
		go func() {
			http.HandleFunc("/metrics", func(w http.ResponseWriter, req *http.Request) {
				conf.Metrics.WritePrometheus(w)
			})
			log.Print(http.ListenAndServe(conf.ExportPort, nil))
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if conf.Headless {
		if conf.ExportPort == "" {
			fmt.Fprintln(os.Stdout, "metrics not being exported; did you forget --export?")
			ec = 1
			return
		}
		if err := runHeadless(ctx, src); err != nil {
			stderrLogger.Print(err)
			ec = 1
		}
		return
	}

	ui, err := tui.New(conf, src)
	if err != nil {
		stderrLogger.Print(err)
		ec = 1
		return
	}
	defer ui.ShutdownUI()
	if err := ui.LoopUI(ctx); err != nil {
		stderrLogger.Print(err)
		ec = 1
		return
	}
}

// runHeadless drives the needle without a terminal until interrupted; the
// needle is only visible through the exported metrics.
func runHeadless(ctx context.Context, src devices.Source) error {
	g, err := conf.NewGauge(nil)
	if err != nil {
		return err
	}
	if conf.Resume {
		if err := conf.RestoreNeedle(g.Needle); err != nil {
			log.Print(err)
		}
	}
	dial := widgets.NewDial(g)
	dial.EnableMetrics(conf.Metrics)
	if r, ok := src.(*devices.Random); ok {
		r.Duration = 0
		r.Start()
	}
	values := devices.Spawn(ctx, src, conf.UpdateInterval)
	frames := time.NewTicker(conf.FrameInterval)
	defer frames.Stop()

	fmt.Println("gotach running... press ^c to exit")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case <-c:
			return conf.SaveNeedle(g.Needle)
		case v, ok := <-values:
			if !ok {
				values = nil
				continue
			}
			if err := g.SetTargetValue(v); err != nil {
				log.Print(err)
			}
		case now := <-frames.C:
			dial.Update(now)
		}
	}
}
