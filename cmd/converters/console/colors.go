package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Mode colors a channel mode label so that tables are easy to scan.
func Mode(mode string) string {
	switch mode {
	case "UNUSED":
		return Yellow(mode)
	case "GPIO":
		return Cyan(mode)
	default:
		return Green(mode)
	}
}
