// Package provision runs the WordOps install sequence on a target VPS over
// SSH, reporting progress as session events. The UI consumes the resulting
// event stream exactly as it consumes the hosted flow's transport stream.
package provision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bloghouse/tatame/internal/logger"
	"github.com/bloghouse/tatame/internal/session"
	"github.com/bloghouse/tatame/pkg/sshutil"
)

// Dialer opens the SSH connection to the target. Injected so tests can
// substitute a scripted client.
type Dialer func(t Target) (sshutil.SSHClient, error)

// PasswordDialer dials with the credentials from the target.
func PasswordDialer(timeout time.Duration) Dialer {
	return func(t Target) (sshutil.SSHClient, error) {
		client, err := sshutil.DialPassword(t.Host, t.User, t.Password, timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// KeyDialer dials with key or agent auth, resolving connection settings
// from the user's SSH config. Used when the target is a host the user
// already has key access to.
func KeyDialer(timeout time.Duration) Dialer {
	return func(t Target) (sshutil.SSHClient, error) {
		client, err := sshutil.Dial(t.Host, timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Engine executes provisioning runs.
type Engine struct {
	dial Dialer
	log  logger.Logger
}

// NewEngine creates an engine using the given dialer.
func NewEngine(dial Dialer, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Noop()
	}
	return &Engine{dial: dial, log: log}
}

// Run provisions the target in a background goroutine and returns the event
// stream. The channel is closed after the terminal event (setupComplete or
// setupError) is delivered. Cancelling the context stops the run between
// steps; a command already executing on the server is not interrupted.
func (e *Engine) Run(ctx context.Context, t Target) <-chan session.Event {
	events := make(chan session.Event, 16)
	go func() {
		defer close(events)
		e.run(ctx, t, events)
	}()
	return events
}

func (e *Engine) run(ctx context.Context, t Target, events chan<- session.Event) {
	client, err := e.dial(t)
	if err != nil {
		e.log.Debug("dial %s failed: %v", t.Host, err)
		events <- session.SetupError{Error: err.Error(), Host: t.Host}
		return
	}
	defer client.Close()

	events <- session.Connected{Host: t.Host}

	steps := Steps(t)
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			events <- session.SetupError{Error: "provisioning cancelled", Host: t.Host}
			return
		}

		events <- session.StepStart{Step: step.ID, Name: step.Name, Progress: step.Progress}
		e.log.Debug("step %s: %s", step.ID, step.Command)

		out := newLineEmitter(events)
		exitCode, err := client.ExecStream(step.Command, out, out)
		out.Flush()

		if err != nil {
			events <- session.StepError{Step: step.ID, Name: step.Name, Error: err.Error()}
			events <- session.SetupError{Error: err.Error(), Host: t.Host}
			return
		}
		if exitCode != 0 {
			msg := fmt.Sprintf("%s failed with exit code %d", step.Name, exitCode)
			events <- session.StepError{Step: step.ID, Name: step.Name, Error: msg}
			events <- session.SetupError{Error: msg, Host: t.Host}
			return
		}

		if step.ID == "detect" {
			if err := checkLinux(client); err != nil {
				events <- session.StepError{Step: step.ID, Name: step.Name, Error: err.Error()}
				events <- session.SetupError{Error: err.Error(), Host: t.Host}
				return
			}
		}

		events <- session.StepComplete{Step: step.ID, Name: step.Name, Progress: step.Progress}
	}

	events <- session.SetupComplete{VPSID: t.Host, Host: t.Host}
}

// checkLinux verifies the target runs Linux. WordOps supports nothing else.
func checkLinux(client sshutil.SSHClient) error {
	stdout, _, exitCode, err := client.Exec("uname -s")
	if err != nil {
		return fmt.Errorf("failed to detect OS: %w", err)
	}
	if exitCode != 0 {
		return fmt.Errorf("uname failed with exit code %d", exitCode)
	}
	osName := strings.TrimSpace(strings.ToLower(string(stdout)))
	if osName != "linux" {
		return fmt.Errorf("unsupported server OS %q, WordOps requires Linux", osName)
	}
	return nil
}

// lineEmitter is an io.Writer that splits writes into lines and emits each
// as an Output event.
type lineEmitter struct {
	events chan<- session.Event
	buf    strings.Builder
}

func newLineEmitter(events chan<- session.Event) *lineEmitter {
	return &lineEmitter{events: events}
}

func (w *lineEmitter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			w.emit()
			continue
		}
		if b == '\r' {
			continue
		}
		w.buf.WriteByte(b)
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *lineEmitter) Flush() {
	if w.buf.Len() > 0 {
		w.emit()
	}
}

func (w *lineEmitter) emit() {
	line := w.buf.String()
	w.buf.Reset()
	if strings.TrimSpace(line) == "" {
		return
	}
	w.events <- session.Output{Output: line}
}
