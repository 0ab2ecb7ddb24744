package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vivek-26-12/ChatWebscoket/internal/server"
	"github.com/Vivek-26-12/ChatWebscoket/internal/testhelpers"
)

// TestHealthHandler verifies the liveness response for every method.
func TestHealthHandler(t *testing.T) {
	methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/", http.NoBody)
			rr := httptest.NewRecorder()

			server.HealthHandler(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "text/plain" {
				t.Errorf("Content-Type = %q, want text/plain", ct)
			}
			if rr.Body.String() != server.LivenessBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), server.LivenessBody)
			}
		})
	}
}

// TestLivenessOnAnyPath checks the routed surface answers every path that is
// not a WebSocket upgrade.
func TestLivenessOnAnyPath(t *testing.T) {
	hub := server.NewHub(nil)
	ts := httptest.NewServer(server.SetupRoutes(hub))
	defer ts.Close()

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/"},
		{"GET", "/ws"},
		{"POST", "/ws"},
		{"DELETE", "/some/deep/path"},
		{"HEAD", "/status"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := testhelpers.MakeRequest(t, tt.method, ts.URL+tt.path)
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
			}
			if tt.method == "HEAD" {
				return
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(body) != server.LivenessBody {
				t.Errorf("body = %q, want %q", body, server.LivenessBody)
			}
		})
	}
}

// TestCreateServer verifies the HTTP server configuration.
func TestCreateServer(t *testing.T) {
	mux := server.SetupRoutes(server.NewHub(nil))

	srv := server.CreateServer(":8080", mux)

	if srv.Addr != ":8080" {
		t.Errorf("Addr = %s, want :8080", srv.Addr)
	}
	if srv.Handler != mux {
		t.Error("Server handler not set correctly")
	}
	if srv.ReadHeaderTimeout != 15*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, want 15s", srv.ReadHeaderTimeout)
	}
	if srv.IdleTimeout != 60*time.Second {
		t.Errorf("IdleTimeout = %v, want 60s", srv.IdleTimeout)
	}
}
