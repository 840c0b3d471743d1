package colorutils

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Label pads name to width before styling it, so columns line up whether or
// not color is enabled.
func Label(name string, width int) string {
	return Bold(fmt.Sprintf("%-*s", width, name))
}
