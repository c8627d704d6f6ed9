package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_StepStart(t *testing.T) {
	ev, err := Decode("vps:stepStart", []byte(`{"step":"connect","name":"Connecting to server","progress":10}`))
	require.NoError(t, err)

	start, ok := ev.(StepStart)
	require.True(t, ok)
	assert.Equal(t, "connect", start.Step)
	assert.Equal(t, "Connecting to server", start.Name)
	assert.Equal(t, 10, start.Progress)
}

func TestDecode_UnprefixedName(t *testing.T) {
	ev, err := Decode("setupComplete", []byte(`{"vpsId":"vps-9","host":"203.0.113.5"}`))
	require.NoError(t, err)

	done, ok := ev.(SetupComplete)
	require.True(t, ok)
	assert.Equal(t, "vps-9", done.VPSID)
	assert.Equal(t, "203.0.113.5", done.Host)
}

func TestDecode_SimpleProgressMapsToStepStart(t *testing.T) {
	ev, err := Decode("simpleVps:progress", []byte(`{"step":"connect","message":"Connecting...","progress":10}`))
	require.NoError(t, err)

	start, ok := ev.(StepStart)
	require.True(t, ok)
	assert.Equal(t, "connect", start.Step)
	assert.Equal(t, "Connecting...", start.Name)
	assert.Equal(t, 10, start.Progress)
}

func TestDecode_AllKnownNames(t *testing.T) {
	names := []string{
		"connected", "stepStart", "stepComplete", "stepError",
		"output", "setupComplete", "setupError",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			ev, err := Decode("vps:"+name, []byte(`{}`))
			require.NoError(t, err)
			assert.Equal(t, name, ev.EventName())
		})
	}
}

func TestDecode_UnknownNameIsAnError(t *testing.T) {
	ev, err := Decode("vps:rebootStarted", []byte(`{}`))

	assert.Nil(t, ev)
	var unknown *UnknownEventError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "vps:rebootStarted", unknown.Name)
}

func TestDecode_EmptyPayload(t *testing.T) {
	ev, err := Decode("simpleVps:connected", nil)
	require.NoError(t, err)

	_, ok := ev.(Connected)
	assert.True(t, ok)
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode("vps:output", []byte(`{"output":`))
	assert.Error(t, err)
}

func TestDecode_SetupError(t *testing.T) {
	ev, err := Decode("simpleVps:setupError", []byte(`{"error":"WordOps install failed","host":"h"}`))
	require.NoError(t, err)

	fail, ok := ev.(SetupError)
	require.True(t, ok)
	assert.Equal(t, "WordOps install failed", fail.Error)
}
