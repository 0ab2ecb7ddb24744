// Package testhelpers provides common utilities for testing the chat server.
//
// It contains helpers to dial WebSocket connections, send inbound frames and
// read outbound envelopes by type, so tests avoid repeating plumbing.
package testhelpers

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultTimeout bounds every blocking read in these helpers.
const DefaultTimeout = 2 * time.Second

// Envelope is a decoded outbound frame with its type tag lifted out.
type Envelope struct {
	Type string
	Raw  json.RawMessage
}

// Decode unmarshals the envelope body into v.
func (e Envelope) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(e.Raw, v); err != nil {
		t.Fatalf("Failed to decode %s envelope %s: %v", e.Type, e.Raw, err)
	}
}

// WebSocketURL converts an httptest server URL to a ws:// URL with path.
func WebSocketURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

// ConnectWebSocket creates a WebSocket connection to the specified URL.
// It returns the connection or an error if connection fails.
func ConnectWebSocket(url string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	headers.Set("Origin", "http://localhost:8080")

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// MustConnect dials url and registers the connection for cleanup.
func MustConnect(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, err := ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SendFrame marshals frame as JSON and writes it as one text message.
func SendFrame(t *testing.T, conn *websocket.Conn, frame any) {
	t.Helper()
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("Failed to send frame %v: %v", frame, err)
	}
}

// ReadEnvelope reads the next text frame within timeout.
func ReadEnvelope(conn *websocket.Conn, timeout time.Duration) (Envelope, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Envelope{}, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return Envelope{}, err
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: head.Type, Raw: data}, nil
}

// ReadUntil reads envelopes until one with type msgType arrives, discarding
// others, and fails the test if none arrives within DefaultTimeout.
func ReadUntil(t *testing.T, conn *websocket.Conn, msgType string) Envelope {
	t.Helper()
	deadline := time.Now().Add(DefaultTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("Timed out waiting for %q envelope", msgType)
		}
		env, err := ReadEnvelope(conn, remaining)
		if err != nil {
			t.Fatalf("Failed waiting for %q envelope: %v", msgType, err)
		}
		if env.Type == msgType {
			return env
		}
	}
}

// ReadUntilMatch reads envelopes of msgType until match accepts one.
func ReadUntilMatch(t *testing.T, conn *websocket.Conn, msgType string, match func(Envelope) bool) Envelope {
	t.Helper()
	deadline := time.Now().Add(DefaultTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("Timed out waiting for matching %q envelope", msgType)
		}
		env, err := ReadEnvelope(conn, remaining)
		if err != nil {
			t.Fatalf("Failed waiting for matching %q envelope: %v", msgType, err)
		}
		if env.Type == msgType && match(env) {
			return env
		}
	}
}

// ExpectNoEnvelope fails if an envelope of msgType arrives within timeout.
// Envelopes of other types are ignored. A gorilla connection cannot be read
// again after a read deadline expires, so call this last on conn.
func ExpectNoEnvelope(t *testing.T, conn *websocket.Conn, msgType string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		env, err := ReadEnvelope(conn, remaining)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return
			}
			t.Fatalf("Unexpected error while waiting for absence of %q: %v", msgType, err)
		}
		if env.Type == msgType {
			t.Fatalf("Expected no %q envelope, got %s", msgType, env.Raw)
		}
	}
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}

// MakeRequest creates and executes an HTTP request, returning the response.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}
