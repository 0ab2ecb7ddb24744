// Package server implements the presence and message-relay service: the Hub
// that owns connection and group state, per-connection WebSocket clients, and
// the HTTP surface that serves liveness checks and upgrades.
//
// The implementation is organized into specialized files for configuration,
// hub lifecycle, presence, routing, disconnect cleanup, clients and HTTP
// handlers.
package server
