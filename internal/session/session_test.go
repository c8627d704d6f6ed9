package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRunning(t *testing.T) *Session {
	t.Helper()
	s := New("203.0.113.5")
	s.Start()
	s.Apply(Connected{Host: "203.0.113.5"})
	return s
}

func TestNew_StartsIdle(t *testing.T) {
	s := New("203.0.113.5")

	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, 0, s.ProgressPercent)
	assert.NotEmpty(t, s.ID)
	assert.Empty(t, s.Log())
}

func TestStart_ResetsProgress(t *testing.T) {
	s := New("203.0.113.5")
	s.ProgressPercent = 42
	s.Start()

	assert.Equal(t, StatusConnecting, s.Status)
	assert.Equal(t, 0, s.ProgressPercent)
}

func TestApply_ConnectedMovesToRunning(t *testing.T) {
	s := New("203.0.113.5")
	s.Start()
	s.Apply(Connected{Host: "203.0.113.5"})

	assert.Equal(t, StatusRunning, s.Status)
}

func TestApply_FirstStepStartMovesToRunning(t *testing.T) {
	// A stepStart before any connected event still transitions the session.
	s := New("203.0.113.5")
	s.Start()
	s.Apply(StepStart{Step: "connect", Name: "Connecting", Progress: 10})

	assert.Equal(t, StatusRunning, s.Status)
	assert.Equal(t, "Connecting", s.CurrentStep)
	assert.Equal(t, 10, s.ProgressPercent)
}

func TestApply_ProgressTracksMostRecentStepEvent(t *testing.T) {
	s := newRunning(t)

	s.Apply(StepStart{Step: "update", Name: "System update", Progress: 20})
	assert.Equal(t, 20, s.ProgressPercent)

	s.Apply(StepComplete{Step: "update", Name: "System update", Progress: 35})
	assert.Equal(t, 35, s.ProgressPercent)
	assert.Equal(t, "System update", s.CurrentStep)
}

func TestApply_ProgressNeverDecreases(t *testing.T) {
	s := newRunning(t)

	s.Apply(StepStart{Step: "a", Name: "A", Progress: 60})
	s.Apply(StepStart{Step: "b", Name: "B", Progress: 40})

	assert.Equal(t, 60, s.ProgressPercent, "stale progress must not move the bar backward")
	assert.Equal(t, "B", s.CurrentStep, "step name still tracks the latest event")
}

func TestApply_ProgressClampedToRange(t *testing.T) {
	s := newRunning(t)

	s.Apply(StepStart{Step: "a", Name: "A", Progress: -5})
	assert.Equal(t, 0, s.ProgressPercent)

	s.Apply(StepStart{Step: "b", Name: "B", Progress: 150})
	assert.Equal(t, 100, s.ProgressPercent)
}

func TestApply_SetupCompleteForcesHundred(t *testing.T) {
	s := newRunning(t)
	s.Apply(StepStart{Step: "a", Name: "A", Progress: 30})

	s.Apply(SetupComplete{VPSID: "vps-123", Host: "203.0.113.5"})

	assert.Equal(t, StatusComplete, s.Status)
	assert.Equal(t, 100, s.ProgressPercent)
	assert.Equal(t, "vps-123", s.VPSID)
}

func TestApply_StepErrorMovesToError(t *testing.T) {
	s := newRunning(t)

	s.Apply(StepError{Step: "wordops", Name: "Install WordOps", Error: "exit status 1"})

	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "exit status 1", s.ErrorMessage)
}

func TestApply_SetupErrorFromConnecting(t *testing.T) {
	s := New("203.0.113.5")
	s.Start()

	s.Apply(SetupError{Error: "auth failed", Host: "203.0.113.5"})

	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "auth failed", s.ErrorMessage)
}

func TestApply_TerminalStatesAreSticky(t *testing.T) {
	s := newRunning(t)
	s.Apply(SetupComplete{VPSID: "vps-1"})

	before := len(s.Log())
	s.Apply(StepStart{Step: "x", Name: "X", Progress: 10})
	s.Apply(Output{Output: "stray line"})

	assert.Equal(t, StatusComplete, s.Status)
	assert.Equal(t, 100, s.ProgressPercent)
	assert.Len(t, s.Log(), before, "events after a terminal state are ignored")
}

func TestApply_LateErrorOverwritesMessage(t *testing.T) {
	// stepError and setupError arrive from independent emitters; the last
	// one to land owns the displayed message.
	s := newRunning(t)

	s.Apply(StepError{Step: "stack", Name: "Configure stack", Error: "step failed"})
	s.Apply(SetupError{Error: "setup failed"})

	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "setup failed", s.ErrorMessage)
}

func TestApply_OutputAppendsToLog(t *testing.T) {
	s := newRunning(t)

	s.Apply(Output{Output: "Reading package lists..."})
	s.Apply(Output{Output: "Building dependency tree..."})

	log := s.Log()
	assert.GreaterOrEqual(t, len(log), 2)
	assert.Equal(t, "Building dependency tree...", log[len(log)-1].Text)
	assert.False(t, log[len(log)-1].Time.IsZero(), "log lines are timestamped")
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusConnecting, "connecting"},
		{StatusRunning, "running"},
		{StatusComplete, "complete"},
		{StatusError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusIdle.Terminal())
	assert.False(t, StatusConnecting.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusComplete.Terminal())
	assert.True(t, StatusError.Terminal())
}
