package shell

import (
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/fast-explorer/fexp"
	"github.com/mattn/go-runewidth"
)

// FormatTime renders t in UTC with second precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(internal.DefaultTimeFormat)
}

// PadRight pads s with spaces to width terminal cells. Wider strings are
// returned unchanged so paths are never cut.
func PadRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s
	}
	return runewidth.FillRight(s, width)
}

// rule draws a horizontal separator width cells wide.
func rule(width int) string {
	return strings.Repeat("-", max(width, 0))
}
