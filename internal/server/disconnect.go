package server

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/attribute"
)

// Disconnect handles a closed transport: deregister, broadcast presence, then
// drop the user from its groups and refresh every affected member. The steps
// run in that fixed order with no rollback. Calling it for a client that never
// joined, or that was evicted by a newer join, only releases the transport.
func (h *Hub) Disconnect(c *Client) {
	_, span := h.tracer.Start(context.Background(), "chat.disconnect")
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, c)
	c.closeSend()

	if c.connID == "" {
		return
	}

	username, ok := h.registry.Deregister(c.connID)
	connID := c.connID
	c.connID = ""
	if !ok {
		log.Printf("Connection %s for %s closed after eviction", connID, c.username)
		return
	}
	log.Printf("User disconnected: %s (%s)", username, connID)
	span.SetAttributes(attribute.String("chat.username", username))

	h.broadcastPresenceLocked()

	removal := h.groups.RemoveMember(username)
	for _, id := range removal.Disbanded {
		log.Printf("Group %s disbanded due to lack of members", id)
	}
	for _, member := range removal.Affected {
		h.sendGroupListLocked(member)
	}
	span.SetAttributes(
		attribute.Int("chat.groups.disbanded", len(removal.Disbanded)),
		attribute.Int("chat.groups.affected_users", len(removal.Affected)),
	)
}
