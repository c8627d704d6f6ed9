package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghouse/tatame/internal/errors"
	"github.com/bloghouse/tatame/internal/session"
	"github.com/bloghouse/tatame/internal/ui"
)

// captureOutput redirects command output for the duration of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := cmdOut
	cmdOut = func() io.Writer { return &buf }
	t.Cleanup(func() { cmdOut = orig })
	return &buf
}

func TestSessionResult(t *testing.T) {
	sess := session.New("h")
	sess.Start()

	sess.Apply(session.SetupComplete{VPSID: "v", Host: "h"})
	assert.NoError(t, sessionResult(sess))

	sess = session.New("h")
	sess.Start()
	sess.Apply(session.SetupError{Error: "disk full", Host: "h"})
	err := sessionResult(sess)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
	assert.Contains(t, err.Error(), "disk full")

	// Stream ended without a terminal event.
	sess = session.New("h")
	sess.Start()
	sess.Apply(session.Connected{Host: "h"})
	err = sessionResult(sess)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
}

func TestPlainRenderer(t *testing.T) {
	var buf bytes.Buffer

	sess := session.New("203.0.113.5")
	sess.Start()
	renderer := newPlainRenderer(sess, &buf)

	for _, ev := range []session.Event{
		session.Connected{Host: "203.0.113.5"},
		session.StepStart{Step: "stack", Name: "Installing stack", Progress: 65},
		session.Output{Output: "Downloading nginx"},
		session.StepComplete{Step: "stack", Name: "Installing stack", Progress: 65},
		session.SetupComplete{VPSID: "v", Host: "203.0.113.5"},
	} {
		sess.Apply(ev)
		renderer.render(ev)
	}

	out := buf.String()
	assert.Contains(t, out, "Connected to 203.0.113.5")
	assert.Contains(t, out, "Installing stack")
	assert.Contains(t, out, "Downloading nginx")
	assert.Contains(t, out, ui.SymbolComplete+" Installing stack")
	assert.Contains(t, out, "Setup complete")
	assert.Contains(t, out, "in 0.0") // run duration
}

func TestPlainRenderer_Failure(t *testing.T) {
	var buf bytes.Buffer

	sess := session.New("h")
	sess.Start()
	renderer := newPlainRenderer(sess, &buf)

	for _, ev := range []session.Event{
		session.StepStart{Step: "stack", Name: "Installing stack", Progress: 65},
		session.StepError{Step: "stack", Name: "Installing stack", Error: "apt locked"},
		session.SetupError{Error: "apt locked", Host: "h"},
	} {
		sess.Apply(ev)
		renderer.render(ev)
	}

	out := buf.String()
	assert.Contains(t, out, ui.SymbolFail+" Installing stack")
	assert.Contains(t, out, "apt locked")
	assert.Contains(t, out, "Setup failed")
}

// TestVPSSimpleSetup_StreamOpensBeforeKickoff runs the hosted flow against
// a combined REST + WebSocket server and checks that the event stream is
// dialed before the setup request goes out, then bound to the run channel
// the request returns. Events the backend pushes the moment the request
// lands must all be delivered.
func TestVPSSimpleSetup_StreamOpensBeforeKickoff(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(step string) {
		mu.Lock()
		order = append(order, step)
		mu.Unlock()
	}

	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		record("stream")
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var authMsg struct {
			Token string `json:"token"`
		}
		require.NoError(t, conn.ReadJSON(&authMsg))
		assert.Equal(t, "test-token", authMsg.Token)

		var sub struct {
			Channel string `json:"channel"`
		}
		require.NoError(t, conn.ReadJSON(&sub))
		assert.Equal(t, "run-42", sub.Channel)

		type wireFrame struct {
			Event string `json:"event"`
			Data  any    `json:"data"`
		}
		for _, f := range []wireFrame{
			{Event: "simpleVps:connected", Data: map[string]any{"host": "203.0.113.5"}},
			{Event: "simpleVps:setupComplete", Data: map[string]any{"vpsId": "vps-9", "host": "203.0.113.5"}},
		} {
			require.NoError(t, conn.WriteJSON(f))
		}
	})
	mux.HandleFunc("/api/vps/simple-setup", func(w http.ResponseWriter, r *http.Request) {
		record("kickoff")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"sessionId":"s-1","channel":"run-42"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfgBody := fmt.Sprintf("version: 1\napi:\n  url: %s\n", srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))

	t.Setenv("TATAME_TOKEN", "test-token")
	origConfig, origHost, origUser, origPassword, origQuiet :=
		configFlag, simpleHostFlag, simpleUserFlag, simplePasswordFlag, quietFlag
	t.Cleanup(func() {
		configFlag, simpleHostFlag, simpleUserFlag, simplePasswordFlag, quietFlag =
			origConfig, origHost, origUser, origPassword, origQuiet
	})
	configFlag = cfgPath
	simpleHostFlag = "203.0.113.5"
	simpleUserFlag = "root"
	simplePasswordFlag = "pw"
	quietFlag = true

	buf := captureOutput(t)
	require.NoError(t, vpsSimpleSetupCommand(context.Background()))

	mu.Lock()
	require.Equal(t, []string{"stream", "kickoff"}, order)
	mu.Unlock()

	out := buf.String()
	assert.Contains(t, out, "Connected to 203.0.113.5")
	assert.Contains(t, out, "Setup complete")
}

func TestRequiredValidator(t *testing.T) {
	v := required("host")
	assert.Error(t, v(""))
	assert.Error(t, v("   "))
	assert.NoError(t, v("203.0.113.5"))
}
