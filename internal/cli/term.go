package cli

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/agenda/internal/appointment"
)

// Color definitions for consistent styling across the CLI.
var (
	colorScheduled  = color.New(color.FgCyan)
	colorInProgress = color.New(color.FgYellow, color.Bold)
	colorFinished   = color.New(color.FgGreen)
	colorCancelled  = color.New(color.FgWhite, color.Faint)
	colorNoShow     = color.New(color.FgRed)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	colorError = color.New(color.FgRed, color.Bold)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func statusColor(s appointment.Status) *color.Color {
	switch s {
	case appointment.StatusInProgress:
		return colorInProgress
	case appointment.StatusFinished:
		return colorFinished
	case appointment.StatusCancelled:
		return colorCancelled
	case appointment.StatusNoShow:
		return colorNoShow
	default:
		return colorScheduled
	}
}

func formatStatus(s appointment.Status) string {
	return statusColor(s).Sprint(s.Wire())
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatError(s string) string {
	return colorError.Sprint(s)
}
