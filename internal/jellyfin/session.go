package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jellytui/jellyfin-tui/internal/jferrors"
)

// pingPeriod/pongWait set a keepalive cadence for the long-lived
// WebSocket connection: pings sent well inside the peer's read deadline.
const (
	pingPeriod = 30 * time.Second
	pongWait   = 60 * time.Second
)

// SessionMessage is a server push message on the Jellyfin WebSocket
// session, still in its undecoded wire form.
type SessionMessage struct {
	MessageType string          `json:"MessageType"`
	Data        json.RawMessage `json:"Data"`
}

const (
	messageTypeForceKeepAlive = "ForceKeepAlive"
	messageTypeGeneralCommand = "GeneralCommand"
)

// GeneralCommand is a remote-control push: another Jellyfin client (or
// the server itself) asking this session to change playback. Name is one
// of the server's fixed command names (e.g. "Pause", "Unpause",
// "PlayPause", "NextTrack", "PreviousTrack", "Stop", "Seek"); Arguments
// carries command-specific parameters (Seek's "SeekPositionTicks", for
// instance) as raw strings, matching how the server encodes them.
type GeneralCommand struct {
	Name      string            `json:"Name"`
	Arguments map[string]string `json:"Arguments"`
}

// SessionInfo is the decoded form of a SessionMessage this client acts
// on: either a keep-alive the server wants answered, or a GeneralCommand
// to carry out. Decode returns ok=false for every other message type
// (library change notifications and similar), which callers are free to
// ignore.
type SessionInfo struct {
	KeepAlive bool
	Command   *GeneralCommand
}

// Decode interprets a raw SessionMessage. A malformed GeneralCommand
// payload decodes as ok=false rather than a zero-value command, so
// callers never act on a command they couldn't actually parse.
func (m SessionMessage) Decode() (SessionInfo, bool) {
	switch m.MessageType {
	case messageTypeForceKeepAlive:
		return SessionInfo{KeepAlive: true}, true
	case messageTypeGeneralCommand:
		var cmd GeneralCommand
		if err := json.Unmarshal(m.Data, &cmd); err != nil {
			return SessionInfo{}, false
		}
		return SessionInfo{Command: &cmd}, true
	default:
		return SessionInfo{}, false
	}
}

// Session is an open Jellyfin WebSocket push connection.
type Session struct {
	conn     *websocket.Conn
	messages chan SessionMessage
	closed   chan struct{}
}

// OpenSession dials the server's WebSocket session endpoint, authenticated
// as c. The returned Session's Messages channel is closed when the
// connection ends (server close, network error, or ctx cancellation).
func (c *AuthClient) OpenSession(ctx context.Context) (*Session, error) {
	wsURL, err := toWebSocketURL(c.baseURL, c.creds.AccessToken, c.deviceID)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, jferrors.New(jferrors.KindWebsocket, "dialing session websocket", err)
	}

	s := &Session{
		conn:     conn,
		messages: make(chan SessionMessage, 16),
		closed:   make(chan struct{}),
	}
	go s.readLoop()
	go s.pingLoop()
	return s, nil
}

// Messages yields server push messages until the session closes.
func (s *Session) Messages() <-chan SessionMessage { return s.messages }

// Close tears down the connection.
func (s *Session) Close() error {
	select {
	case <-s.closed:
		return nil
	default:
		close(s.closed)
	}
	return s.conn.Close()
}

func (s *Session) readLoop() {
	defer close(s.messages)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg SessionMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.MessageType == messageTypeForceKeepAlive {
			// The server wants an immediate reply, not just the next
			// scheduled ping; answer in-band and still forward the
			// message so a caller watching Messages sees the beat.
			_ = s.conn.WriteJSON(SessionMessage{MessageType: "KeepAlive"})
		}
		select {
		case s.messages <- msg:
		case <-s.closed:
			return
		}
	}
}

func (s *Session) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// toWebSocketURL rewrites an http(s) base URL into the ws(s) session
// endpoint Jellyfin expects, with the access token and device id attached
// as query parameters.
func toWebSocketURL(baseURL, token, deviceID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", jferrors.New(jferrors.KindURL, "parsing server URL", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", jferrors.New(jferrors.KindURL, fmt.Sprintf("unsupported scheme %q", u.Scheme), nil)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/socket"
	q := u.Query()
	q.Set("api_key", token)
	q.Set("deviceId", deviceID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
