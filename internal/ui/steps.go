package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 64

// StepDisplay renders provisioning step status to an output writer. Used in
// quiet and non-TTY modes where the full-screen setup view isn't available.
type StepDisplay struct {
	w io.Writer
}

// NewStepDisplay creates a step display writing to w.
func NewStepDisplay(w io.Writer) *StepDisplay {
	return &StepDisplay{w: w}
}

// RenderProgress renders a step in progress.
// Shows: ◐ Installing WordOps...
func (sd *StepDisplay) RenderProgress(name string) {
	style := lipgloss.NewStyle().Foreground(ColorSecondary)
	fmt.Fprintf(sd.w, "\r%s %s...", style.Render(SymbolProgress), name)
}

// RenderSuccess renders a completed step.
// Shows: ● Installing WordOps (41.3s)
func (sd *StepDisplay) RenderSuccess(name string, duration time.Duration) {
	sd.clearLine()

	symbolStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(sd.w, "%s %s %s\n",
		symbolStyle.Render(SymbolComplete),
		name,
		timingStyle.Render(FormatDuration(duration)),
	)
}

// RenderFailed renders a failed step.
// Shows: ✗ Installing WordOps (2.3s)
func (sd *StepDisplay) RenderFailed(name string, duration time.Duration) {
	sd.clearLine()

	symbolStyle := lipgloss.NewStyle().Foreground(ColorError)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(sd.w, "%s %s %s\n",
		symbolStyle.Render(SymbolFail),
		name,
		timingStyle.Render(FormatDuration(duration)),
	)
}

// RenderOutput renders an indented line of command output.
func (sd *StepDisplay) RenderOutput(line string) {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(sd.w, "  %s\n", style.Render(line))
}

// Divider renders a horizontal line separating steps from summary output.
func (sd *StepDisplay) Divider() {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(sd.w, "\n%s\n\n", style.Render(strings.Repeat("━", DividerWidth)))
}

// Newline writes an empty line.
func (sd *StepDisplay) Newline() {
	fmt.Fprintln(sd.w)
}

// clearLine clears the current line (for overwriting in-progress output).
func (sd *StepDisplay) clearLine() {
	fmt.Fprint(sd.w, "\r"+strings.Repeat(" ", 80)+"\r")
}

// FormatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
