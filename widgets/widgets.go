package widgets

import (
	"time"

	"github.com/xxxserxxx/lingo/v2"
)

var tr lingo.Translations

// SetTr sets the translations used for widget labels.
func SetTr(t lingo.Translations) {
	tr = t
}

// Widget is anything animated by the frame ticker.
type Widget interface {
	Update(now time.Time)
}

type Widgets []Widget

func (ws Widgets) Update(now time.Time) {
	for _, wid := range ws {
		wid.Update(now)
	}
}
