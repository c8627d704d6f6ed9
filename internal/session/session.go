// Package session holds the state of one provisioning attempt and the
// reducer that folds inbound events into it.
//
// A session is created when the user submits credentials, mutated only by
// events from the engine or the transport, and discarded when the run's UI
// closes. Nothing is persisted: a session that loses its connection stays in
// its last-known state.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a provisioning session.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusRunning
	StatusComplete
	StatusError
)

// String returns a human-readable status string.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is one of the sticky end states.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// LogLine is one entry in the session's append-only output log.
type LogLine struct {
	Time time.Time
	Text string
}

// Session tracks everything the UI shows for a single provisioning attempt.
// It is owned by a single goroutine (the UI event loop) and is not safe for
// concurrent use.
type Session struct {
	ID              string
	Host            string
	CurrentStep     string
	ProgressPercent int
	Status          Status
	ErrorMessage    string
	VPSID           string

	log []LogLine
	now func() time.Time
}

// New creates a session in the idle state for the given target host.
func New(host string) *Session {
	return &Session{
		ID:   uuid.NewString(),
		Host: host,
		now:  time.Now,
	}
}

// Start marks the session as connecting. Progress resets to zero.
func (s *Session) Start() {
	s.Status = StatusConnecting
	s.ProgressPercent = 0
	s.CurrentStep = ""
	s.ErrorMessage = ""
	s.appendLog("Connecting to " + s.Host + "...")
}

// Apply folds one event into the session. Events arriving after a terminal
// state are ignored, except that a second error report overwrites the
// displayed message (the backend emits stepError and setupError independently
// and the last one wins).
func (s *Session) Apply(ev Event) {
	if s.Status.Terminal() {
		// Sticky terminal states. A trailing error event may still refresh
		// the message so the user sees whichever report arrived last.
		if s.Status == StatusError {
			switch e := ev.(type) {
			case StepError:
				s.ErrorMessage = e.Error
			case SetupError:
				s.ErrorMessage = e.Error
			}
		}
		return
	}

	switch e := ev.(type) {
	case Connected:
		if e.Host != "" {
			s.Host = e.Host
		}
		s.Status = StatusRunning
		s.appendLog("Connected to " + s.Host)

	case StepStart:
		s.Status = StatusRunning
		s.CurrentStep = e.Name
		s.advanceProgress(e.Progress)
		s.appendLog("→ " + e.Name)

	case StepComplete:
		s.Status = StatusRunning
		s.CurrentStep = e.Name
		s.advanceProgress(e.Progress)
		s.appendLog("✓ " + e.Name)

	case Output:
		s.appendLog(e.Output)

	case StepError:
		s.Status = StatusError
		s.ErrorMessage = e.Error
		s.appendLog("✗ " + e.Name + ": " + e.Error)

	case SetupComplete:
		s.Status = StatusComplete
		s.ProgressPercent = 100
		s.VPSID = e.VPSID
		s.appendLog("Setup complete")

	case SetupError:
		s.Status = StatusError
		s.ErrorMessage = e.Error
		s.appendLog("Setup failed: " + e.Error)
	}
}

// advanceProgress moves the percentage forward. Progress is monotone within
// a session: a stale or out-of-range value never moves the bar backward.
func (s *Session) advanceProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	if p > s.ProgressPercent {
		s.ProgressPercent = p
	}
}

// Log returns the session's output log. The returned slice is the live
// backing array; callers must not mutate it.
func (s *Session) Log() []LogLine {
	return s.log
}

func (s *Session) appendLog(text string) {
	s.log = append(s.log, LogLine{Time: s.now(), Text: text})
}
