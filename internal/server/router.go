package server

import (
	"context"
	"log"

	"github.com/Vivek-26-12/ChatWebscoket/internal/protocol"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleFrame parses one inbound frame from c and routes it. Bad frames are
// logged and dropped; the connection stays open. Routing misses are silent.
func (h *Hub) HandleFrame(c *Client, raw []byte) {
	_, span := h.tracer.Start(context.Background(), "chat.route",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	frame, err := protocol.Parse(raw)
	if err != nil {
		log.Printf("Invalid frame from %s: %v", c.addr, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid frame")
		return
	}
	span.SetAttributes(attribute.String("chat.frame.kind", frame.Kind()))

	var delivered int
	switch f := frame.(type) {
	case protocol.Join:
		delivered = h.join(c, f)
	case protocol.CreateGroup:
		delivered = h.createGroup(c, f)
	case protocol.GroupMessage:
		delivered = h.relayGroupMessage(f)
	case protocol.DirectMessage:
		delivered = h.relayDirectMessage(f)
	}
	span.SetAttributes(attribute.Int("chat.recipients", delivered))
}

// join binds c to a username, evicting any earlier connection for it, then
// broadcasts presence and sends c its group list.
func (h *Hub) join(c *Client, f protocol.Join) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.username != "" {
		if c.username != f.Username || h.registry.Registered(c.connID) {
			log.Printf("Ignoring join as %q from %s: already joined as %q", f.Username, c.addr, c.username)
			return 0
		}
	}

	c.connID = h.registry.Register(f.Username, c)
	c.username = f.Username
	log.Printf("User connected: %s (%s)", f.Username, c.connID)

	delivered := h.broadcastPresenceLocked()
	if h.sendGroupListLocked(f.Username) {
		delivered++
	}
	return delivered
}

// createGroup stores a group led by c's user and pushes a fresh group list to
// every online member.
func (h *Hub) createGroup(c *Client, f protocol.CreateGroup) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.username == "" || !h.registry.Registered(c.connID) {
		log.Printf("Ignoring createGroup from %s: connection has not joined", c.addr)
		return 0
	}

	g := h.groups.Create(c.username, f.Name, f.Members)
	log.Printf("Group created: %s (%s) with %d members", g.Name, g.ID, len(g.Members))

	delivered := 0
	for _, member := range g.Members {
		if h.sendGroupListLocked(member) {
			delivered++
		}
	}

	if h.cfg.LegacyGroupCreated {
		if payload, ok := encodeEnvelope(protocol.NewGroupCreated(wireGroup(g))); ok && c.Send(payload) {
			delivered++
		}
	}
	return delivered
}

// relayGroupMessage delivers f to every online member of its group. Unknown
// groups and non-member senders are dropped without notice.
func (h *Hub) relayGroupMessage(f protocol.GroupMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups.Get(f.GroupID)
	if !ok || !g.Has(f.From) {
		return 0
	}

	payload, ok := encodeEnvelope(protocol.NewGroupMessage(f, h.now()))
	if !ok {
		return 0
	}

	delivered := 0
	for _, member := range g.Members {
		if t, online := h.registry.Resolve(member); online && t.Send(payload) {
			delivered++
		}
	}
	return delivered
}

// relayDirectMessage delivers f to its recipient only. Nothing is echoed to
// the sender and an offline recipient means the message is dropped.
func (h *Hub) relayDirectMessage(f protocol.DirectMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.registry.Resolve(f.To)
	if !ok {
		return 0
	}

	payload, ok := encodeEnvelope(protocol.NewMessage(f, h.now()))
	if !ok || !t.Send(payload) {
		return 0
	}
	return 1
}
