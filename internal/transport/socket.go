// Package transport maintains the realtime event stream for hosted
// provisioning sessions. The platform pushes provisioning progress over a
// WebSocket as JSON frames; this package authenticates the stream, decodes
// frames into session events, and delivers them on a channel.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bloghouse/tatame/internal/errors"
	"github.com/bloghouse/tatame/internal/logger"
	"github.com/bloghouse/tatame/internal/session"
)

const (
	dialTimeout = 15 * time.Second
	readLimit   = 1 << 20
)

// frame is the wire shape of a single pushed event.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// authFrame is sent once after connecting to bind the stream to a user.
type authFrame struct {
	Token string `json:"token"`
}

// subscribeFrame narrows the stream to one provisioning run's channel.
type subscribeFrame struct {
	Channel string `json:"channel"`
}

// Socket is an authenticated event stream for one provisioning session.
type Socket struct {
	conn *websocket.Conn
	log  logger.Logger
}

// Dial connects to the platform's event endpoint and authenticates with the
// bearer token. The returned socket delivers events until the server closes
// the stream or the listen context is cancelled. There is no automatic
// reconnection; callers start a fresh session if the stream drops.
func Dial(ctx context.Context, url, token string, log logger.Logger) (*Socket, error) {
	if log == nil {
		log = logger.Noop()
	}
	url = toWebSocketURL(url)

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	log.Debug("dialing event stream %s", url)

	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.New(errors.ErrAuth,
				"Blog House rejected your token",
				"Run 'tatame login' to refresh it.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Couldn't connect to the event stream",
			"Check your network connection and the socket URL in your config.")
	}
	conn.SetReadLimit(readLimit)

	if err := conn.WriteJSON(authFrame{Token: token}); err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Couldn't authenticate the event stream", "")
	}

	return &Socket{conn: conn, log: log}, nil
}

// Listen reads frames until the stream ends or ctx is cancelled, decoding
// each into a session event and delivering it on the returned channel. The
// channel is closed when the stream ends. Frames with unrecognized event
// names are logged and skipped rather than killing the stream.
func (s *Socket) Listen(ctx context.Context) <-chan session.Event {
	events := make(chan session.Event, 16)

	go func() {
		defer close(events)
		defer s.conn.Close()

		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				s.conn.Close()
			case <-done:
			}
		}()

		for {
			var f frame
			if err := s.conn.ReadJSON(&f); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					s.log.Debug("event stream ended: %v", err)
				}
				return
			}

			ev, err := session.Decode(f.Event, f.Data)
			if err != nil {
				s.log.Warn("skipping event: %v", err)
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}

			if terminalEvent(ev) {
				return
			}
		}
	}()

	return events
}

// Subscribe binds the stream to the given run channel. The socket is dialed
// before the provisioning request is sent so no early frames are missed;
// once the request returns the channel name, Subscribe narrows the stream
// to that run. Safe to call while Listen is reading.
func (s *Socket) Subscribe(channel string) error {
	if err := s.conn.WriteJSON(subscribeFrame{Channel: channel}); err != nil {
		return errors.WrapWithCode(err, errors.ErrTransport,
			"Couldn't subscribe to the provisioning channel", "")
	}
	return nil
}

// Close tears down the connection. Safe to call after Listen returns.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// terminalEvent reports whether ev ends the provisioning session.
func terminalEvent(ev session.Event) bool {
	switch ev.(type) {
	case session.SetupComplete, session.SetupError:
		return true
	}
	return false
}

// toWebSocketURL rewrites an http(s) base URL to its ws(s) form.
func toWebSocketURL(url string) string {
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}
