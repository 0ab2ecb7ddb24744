package server

import (
	"github.com/Vivek-26-12/ChatWebscoket/internal/groups"
	"github.com/Vivek-26-12/ChatWebscoket/internal/protocol"
)

// broadcastPresenceLocked sends the full online user list to every registered
// connection, the newest joiner included. Callers hold h.mu, which keeps
// snapshots from different joins and leaves in one total order.
func (h *Hub) broadcastPresenceLocked() int {
	payload, ok := encodeEnvelope(protocol.NewOnlineCount(h.registry.Usernames()))
	if !ok {
		return 0
	}

	delivered := 0
	for _, t := range h.registry.Transports() {
		if t.Send(payload) {
			delivered++
		}
	}
	return delivered
}

// sendGroupListLocked sends username its authoritative group list if it is
// online. Callers hold h.mu.
func (h *Hub) sendGroupListLocked(username string) bool {
	t, ok := h.registry.Resolve(username)
	if !ok {
		return false
	}

	payload, ok := encodeEnvelope(protocol.NewGroupList(wireGroups(h.groups.ListFor(username))))
	if !ok {
		return false
	}
	return t.Send(payload)
}

func wireGroup(g groups.Group) protocol.Group {
	return protocol.Group{ID: g.ID, Name: g.Name, Members: g.Members}
}

func wireGroups(list []groups.Group) []protocol.Group {
	out := make([]protocol.Group, len(list))
	for i, g := range list {
		out[i] = wireGroup(g)
	}
	return out
}
