package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferLogger_CapturesMessages(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("connecting to %s", "example.com")
	l.Info("connected")
	l.Warn("slow response")
	l.Error("stream closed")

	assert.Len(t, l.Messages, 4)
	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "connecting to example.com", l.Messages[0].Message)
	assert.Equal(t, "stream closed", l.Messages[3].Message)
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()
	l.Warn("something")

	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()
	l.Info("one")
	l.Clear()

	assert.Empty(t, l.Messages)
}

func TestNoop_DiscardsEverything(t *testing.T) {
	l := Noop()

	// Should not panic and produce no observable output.
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)

	Default().Info("hello")
	assert.True(t, buf.HasLevel("info"))
}
