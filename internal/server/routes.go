// Package server wires HTTP handlers into a ServeMux for the chat service via
// routing helpers.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux serving hub. The single
// catch-all route handles liveness and upgrades on every path.
func SetupRoutes(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", Handler(hub))
	return mux
}
