package widgets

import (
	"image"
	"strings"

	"github.com/gizak/termui/v3"
	"github.com/mattn/go-runewidth"
)

type HelpMenu struct {
	termui.Block
	lines []string
}

func NewHelpMenu() *HelpMenu {
	help := &HelpMenu{
		Block: *termui.NewBlock(),
		lines: strings.Split(tr.Value("help.help"), "\n"),
	}
	help.Title = tr.Value("widget.label.help")
	return help
}

// Resize centres the menu on a terminal of the given size.
func (help *HelpMenu) Resize(termWidth, termHeight int) {
	textWidth := 0
	for _, l := range help.lines {
		if w := runewidth.StringWidth(l); w > textWidth {
			textWidth = w
		}
	}
	textWidth += 4
	textHeight := len(help.lines) + 2
	x := (termWidth - textWidth) / 2
	y := (termHeight - textHeight) / 2
	help.Block.SetRect(x, y, textWidth+x, textHeight+y)
}

func (help *HelpMenu) Draw(buf *termui.Buffer) {
	help.Block.Draw(buf)
	for y, line := range help.lines {
		p := image.Pt(help.Inner.Min.X+1, help.Inner.Min.Y+y)
		if p.Y >= help.Inner.Max.Y {
			break
		}
		buf.SetString(line, termui.Theme.Default, p)
	}
}
