// Package server defines shared helpers reused across client and hub logic.
package server

import (
	"log"
	"strings"

	"github.com/Vivek-26-12/ChatWebscoket/internal/protocol"
)

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}

// encodeEnvelope marshals v and logs on failure so callers can skip delivery.
func encodeEnvelope(v any) ([]byte, bool) {
	payload, err := protocol.Encode(v)
	if err != nil {
		log.Printf("Error encoding outbound envelope %T: %v", v, err)
		return nil, false
	}
	return payload, true
}
