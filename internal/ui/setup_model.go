package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bloghouse/tatame/internal/session"
)

// SpinnerFrames defines the animation frames (◐ ◓ ◑ ◒) shared by all
// Bubble Tea views.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// successCloseDelay is how long the finished view stays on screen before
// closing on its own. Error views stay until a key is pressed.
const successCloseDelay = 2 * time.Second

// logViewportHeight is the number of output lines shown at once.
const logViewportHeight = 10

// eventMsg carries one provisioning event into the model.
type eventMsg struct {
	ev session.Event
}

// streamClosedMsg signals the event channel was closed by the producer.
type streamClosedMsg struct{}

// autoCloseMsg fires after the success delay elapses.
type autoCloseMsg struct{}

// SetupModel is the live view of a provisioning session. It owns the
// session and is the only goroutine that applies events to it.
type SetupModel struct {
	sess   *session.Session
	events <-chan session.Event

	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model

	width       int
	ready       bool
	confirmQuit bool
	closing     bool

	// Aborted reports whether the user quit while provisioning was running.
	Aborted bool
}

// NewSetupModel creates the view for a started session fed by events.
func NewSetupModel(sess *session.Session, events <-chan session.Event) SetupModel {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	pr := progress.New(progress.WithDefaultGradient())

	vp := viewport.New(DividerWidth, logViewportHeight)

	return SetupModel{
		sess:     sess,
		events:   events,
		spinner:  sp,
		progress: pr,
		viewport: vp,
	}
}

// Session exposes the underlying session for callers inspecting the outcome
// after the program exits.
func (m SetupModel) Session() *session.Session {
	return m.sess
}

// Init starts the spinner and the event pump.
func (m SetupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// waitForEvent blocks on the event channel and converts the result to a message.
func (m SetupModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

// Update handles messages for the setup view.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 10
		if barWidth > DividerWidth {
			barWidth = DividerWidth
		}
		if barWidth > 0 {
			m.progress.Width = barWidth
			m.viewport.Width = barWidth
		}
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		m.sess.Apply(msg.ev)
		m.refreshLog()

		cmds := []tea.Cmd{
			m.progress.SetPercent(float64(m.sess.ProgressPercent) / 100),
			m.waitForEvent(),
		}
		if m.sess.Status == session.StatusComplete && !m.closing {
			m.closing = true
			cmds = append(cmds, tea.Tick(successCloseDelay, func(time.Time) tea.Msg {
				return autoCloseMsg{}
			}))
		}
		return m, tea.Batch(cmds...)

	case streamClosedMsg:
		// Stream ended without a terminal event: the session keeps its
		// last-known state and the user closes the view manually.
		return m, nil

	case autoCloseMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// handleKey implements quit handling. Quitting mid-run needs confirmation
// since the remote install keeps going without the view.
func (m SetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.confirmQuit {
		switch key {
		case "y", "Y":
			m.Aborted = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.confirmQuit = false
			return m, nil
		}
		return m, nil
	}

	switch key {
	case "q", "esc", "ctrl+c":
		if m.sess.Status.Terminal() {
			return m, tea.Quit
		}
		m.confirmQuit = true
		return m, nil
	case "up", "k":
		m.viewport.ScrollUp(1)
	case "down", "j":
		m.viewport.ScrollDown(1)
	}
	return m, nil
}

// refreshLog rebuilds the viewport content from the session log, pinned to
// the bottom so the latest output is visible.
func (m *SetupModel) refreshLog() {
	lines := m.sess.Log()
	var sb strings.Builder
	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	for _, line := range lines {
		sb.WriteString(muted.Render(line.Time.Format("15:04:05")))
		sb.WriteString(" ")
		sb.WriteString(line.Text)
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// View renders the setup view.
func (m SetupModel) View() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true)
	sb.WriteString(headerStyle.Render("Setting up " + m.sess.Host))
	sb.WriteString("\n\n")

	sb.WriteString(m.statusLine())
	sb.WriteString("\n\n")

	sb.WriteString(m.progress.View())
	sb.WriteString("\n\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	sb.WriteString(m.footer())
	return sb.String()
}

// statusLine renders the current step with a status symbol.
func (m SetupModel) statusLine() string {
	switch m.sess.Status {
	case session.StatusConnecting:
		return m.spinner.View() + " Connecting to " + m.sess.Host + "..."
	case session.StatusRunning:
		step := m.sess.CurrentStep
		if step == "" {
			step = "Provisioning"
		}
		return m.spinner.View() + " " + step + "..."
	case session.StatusComplete:
		style := lipgloss.NewStyle().Foreground(ColorSuccess)
		return style.Render(SymbolSuccess) + " Your blog server is ready"
	case session.StatusError:
		style := lipgloss.NewStyle().Foreground(ColorError)
		return style.Render(SymbolFail) + " " + m.sess.ErrorMessage
	default:
		style := lipgloss.NewStyle().Foreground(ColorMuted)
		return style.Render(SymbolPending) + " Waiting..."
	}
}

// footer renders the contextual key hints.
func (m SetupModel) footer() string {
	muted := lipgloss.NewStyle().Foreground(ColorMuted)

	if m.confirmQuit {
		warn := lipgloss.NewStyle().Foreground(ColorWarning)
		return warn.Render("Provisioning is still running. Quit anyway? (y/n)")
	}

	switch m.sess.Status {
	case session.StatusComplete:
		return muted.Render("Closing...")
	case session.StatusError:
		return muted.Render("Press q to close")
	default:
		return muted.Render("↑/↓ scroll · q to quit")
	}
}
