// Package server exposes HTTP handlers: the liveness response and WebSocket
// upgrades.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// LivenessBody is the plain-text body served to every non-upgrade request.
const LivenessBody = "Chat Server Running\n"

func newUpgrader(cfg Config) websocket.Upgrader {
	policy := newOriginPolicy(cfg.AllowedOrigins)
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     policy.checkOrigin,
	}
}

// Handler serves the whole HTTP surface. WebSocket upgrade requests on any
// path become chat connections; everything else gets the liveness response.
func Handler(hub *Hub) http.HandlerFunc {
	ws := WebSocketHandler(hub)
	return func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			ws(w, r)
			return
		}
		HealthHandler(w, r)
	}
}

// WebSocketHandler upgrades the HTTP connection to WebSocket, creates a new
// Client and hands it to the hub, which starts the client's read/write pumps.
func WebSocketHandler(hub *Hub) http.HandlerFunc {
	upgrader := newUpgrader(hub.cfg)
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(conn, hub, r.RemoteAddr)
		if !hub.Accept(client) {
			log.Printf("Rejecting connection from %s: hub is shutting down", r.RemoteAddr)
			_ = conn.Close()
		}
	}
}

// HealthHandler answers any method on any path with a plain-text 200.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, LivenessBody)
}
