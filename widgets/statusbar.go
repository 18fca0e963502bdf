package widgets

import (
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/gizak/termui/v3"
	"github.com/mattn/go-runewidth"
)

type StatusBar struct {
	termui.Block
	// Status is shown at the right edge, e.g. whether the driver is running.
	Status string

	frames    ewma.MovingAverage
	lastFrame time.Time
}

func NewStatusBar() *StatusBar {
	self := &StatusBar{
		Block:  *termui.NewBlock(),
		frames: ewma.NewMovingAverage(),
	}
	self.Border = false
	return self
}

// Frame records that a frame was drawn at now.
func (sb *StatusBar) Frame(now time.Time) {
	if !sb.lastFrame.IsZero() {
		if dt := now.Sub(sb.lastFrame).Seconds(); dt > 0 {
			sb.frames.Add(dt)
		}
	}
	sb.lastFrame = now
}

// FPS is the smoothed frame rate, or 0 before two frames were seen.
func (sb *StatusBar) FPS() float64 {
	v := sb.frames.Value()
	if v <= 0 {
		return 0
	}
	return 1 / v
}

func (sb *StatusBar) Draw(buf *termui.Buffer) {
	sb.Block.Draw(buf)
	y := sb.Inner.Min.Y + (sb.Inner.Dy() / 2)

	hostname, err := os.Hostname()
	if err != nil {
		log.Print(tr.Value("error.nohostname", err.Error()))
		hostname = "?"
	}
	buf.SetString(
		hostname,
		termui.Theme.Default,
		image.Pt(sb.Inner.Min.X, y),
	)

	formattedTime := time.Now().Format("15:04:05")
	buf.SetString(
		formattedTime,
		termui.Theme.Default,
		image.Pt(sb.Inner.Min.X+(sb.Inner.Dx()/2)-len(formattedTime)/2, y),
	)

	right := fmt.Sprintf("%s %3.0ffps gotach", sb.Status, sb.FPS())
	buf.SetString(
		right,
		termui.Theme.Default,
		image.Pt(sb.Inner.Max.X-runewidth.StringWidth(right), y),
	)
}
