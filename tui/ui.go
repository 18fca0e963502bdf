package tui

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gizak/termui/v3"

	"github.com/xxxserxxx/gotach"
	"github.com/xxxserxxx/gotach/devices"
	"github.com/xxxserxxx/gotach/gauge"
	"github.com/xxxserxxx/gotach/widgets"
)

// redrawFlag coalesces redraw requests from the needle until the next frame.
type redrawFlag struct {
	dirty bool
}

func (r *redrawFlag) RequestRedraw() {
	r.dirty = true
}

// take reports whether a redraw was requested and clears the request.
func (r *redrawFlag) take() bool {
	d := r.dirty
	r.dirty = false
	return d
}

type TUI struct {
	conf   gotach.Config
	gauge  *gauge.Gauge
	src    devices.Source
	redraw *redrawFlag
	dial   *widgets.Dial
	bar    *widgets.StatusBar
	help   *widgets.HelpMenu

	// advanced once per frame
	animated widgets.Widgets
}

// New builds the gauge from conf and initializes the terminal.
func New(conf gotach.Config, src devices.Source) (*TUI, error) {
	t, err := newTUI(conf, src)
	if err != nil {
		return nil, err
	}
	return t, termui.Init()
}

func newTUI(conf gotach.Config, src devices.Source) (*TUI, error) {
	t := &TUI{conf: conf, src: src, redraw: &redrawFlag{}}
	g, err := conf.NewGauge(t.redraw)
	if err != nil {
		return nil, err
	}
	t.gauge = g
	if conf.Resume {
		if err := conf.RestoreNeedle(g.Needle); err != nil {
			log.Print(err)
		}
	}
	t.dial = widgets.NewDial(g)
	t.dial.OnSettle = t.redraw.RequestRedraw
	t.animated = widgets.Widgets{t.dial}
	if conf.ExportPort != "" {
		t.dial.EnableMetrics(conf.Metrics)
	}
	t.help = widgets.NewHelpMenu()
	if conf.Statusbar {
		t.bar = widgets.NewStatusBar()
	}
	return t, nil
}

// Gauge is the gauge being displayed.
func (t *TUI) Gauge() *gauge.Gauge {
	return t.gauge
}

func (t *TUI) ShutdownUI() {
	termui.Close()
	if err := t.conf.SaveNeedle(t.gauge.Needle); err != nil {
		log.Print(err)
	}
}

func (t *TUI) LoopUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	values := devices.Spawn(ctx, t.src, t.conf.UpdateInterval)

	termWidth, termHeight := termui.TerminalDimensions()
	t.resize(termWidth, termHeight)
	t.render()
	t.eventLoop(ctx, values)
	return nil
}

func (t *TUI) resize(w, h int) {
	if t.bar != nil {
		t.dial.SetRect(0, 0, w, h-1)
		t.bar.SetRect(0, h-1, w, h)
	} else {
		t.dial.SetRect(0, 0, w, h)
	}
	t.help.Resize(w, h)
}

func (t *TUI) render() {
	if t.conf.HelpVisible {
		termui.Render(t.help)
		return
	}
	termui.Render(t.dial)
	t.renderStatus()
}

// renderStatus redraws only the status bar, for the clock and driver state.
func (t *TUI) renderStatus() {
	if bar := t.statusBar(); bar != nil {
		termui.Render(bar)
	}
}

// statusBar refreshes the status bar text and returns the bar, or nil when it
// is not on screen.
func (t *TUI) statusBar() *widgets.StatusBar {
	if t.bar == nil || t.conf.HelpVisible {
		return nil
	}
	t.bar.Status = t.status()
	return t.bar
}

// frame animates one frame and reports whether it needs rendering.
func (t *TUI) frame(now time.Time) bool {
	t.animated.Update(now)
	if !t.redraw.take() {
		return false
	}
	if t.bar != nil {
		t.bar.Frame(now)
	}
	return true
}

func (t *TUI) status() string {
	r, ok := t.src.(*devices.Random)
	if !ok {
		return t.conf.Tr.Value("status.live", t.conf.Source)
	}
	if r.Running() {
		return t.conf.Tr.Value("status.running")
	}
	return t.conf.Tr.Value("status.stopped")
}

func (t *TUI) setTarget(v float64) {
	if err := t.gauge.SetTargetValue(v); err != nil {
		log.Print(err)
	}
}

func (t *TUI) eventLoop(ctx context.Context, values <-chan float64) {
	drawTicker := time.NewTicker(t.conf.FrameInterval)
	defer drawTicker.Stop()
	// the clock and driver state change without the needle moving
	statusTicker := time.NewTicker(time.Second)
	defer statusTicker.Stop()

	// handles kill signal sent to gotach
	sigTerm := make(chan os.Signal, 2)
	signal.Notify(sigTerm, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigTerm)

	uiEvents := termui.PollEvents()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigTerm:
			return
		case v, ok := <-values:
			if !ok {
				values = nil
				break
			}
			t.setTarget(v)
		case now := <-drawTicker.C:
			if t.frame(now) {
				t.render()
			}
		case <-statusTicker.C:
			t.renderStatus()
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return
			case "?":
				t.conf.HelpVisible = !t.conf.HelpVisible
				termui.Clear()
				t.render()
			case "<Escape>":
				if t.conf.HelpVisible {
					t.conf.HelpVisible = false
					termui.Clear()
					t.render()
				}
			case "<Space>", "s":
				if r, ok := t.src.(*devices.Random); ok {
					r.Toggle()
					t.render()
				}
			case "+", "=", "<Up>", "k":
				st := t.gauge.Needle.State()
				t.setTarget(st.Target + t.gauge.Scale.SubdivisionValue())
			case "-", "<Down>", "j":
				st := t.gauge.Needle.State()
				t.setTarget(st.Target - t.gauge.Scale.SubdivisionValue())
			case "<Resize>":
				payload := e.Payload.(termui.Resize)
				t.resize(payload.Width, payload.Height)
				termui.Clear()
				t.render()
			}
		}
	}
}
