// Package registry maps connection identities to usernames and transports and
// keeps at most one addressable connection per username.
package registry

import (
	"sort"

	"github.com/google/uuid"
)

// ConnID is an opaque identity minted for each registration and never reused.
type ConnID string

// Transport is the outbound half of a live connection. Send must not block;
// it reports false when the payload could not be queued.
type Transport interface {
	Send(payload []byte) bool
}

type entry struct {
	username  string
	transport Transport
	seq       uint64
}

// Registry is not safe for concurrent use. The hub serialises access to it.
type Registry struct {
	conns      map[ConnID]*entry
	byUsername map[string]ConnID
	seq        uint64
	newID      func() ConnID
}

// New returns an empty registry minting uuid v4 identities.
func New() *Registry {
	return NewWithIDs(func() ConnID { return ConnID(uuid.NewString()) })
}

// NewWithIDs returns an empty registry using newID to mint identities.
func NewWithIDs(newID func() ConnID) *Registry {
	return &Registry{
		conns:      make(map[ConnID]*entry),
		byUsername: make(map[string]ConnID),
		newID:      newID,
	}
}

// Register binds username to t under a fresh identity. A previous connection
// for the same username is evicted: it stays open but is no longer
// addressable and receives no notification.
func (r *Registry) Register(username string, t Transport) ConnID {
	if old, ok := r.byUsername[username]; ok {
		delete(r.conns, old)
	}

	id := r.newID()
	r.seq++
	r.conns[id] = &entry{username: username, transport: t, seq: r.seq}
	r.byUsername[username] = id
	return id
}

// Resolve returns the live transport registered for username.
func (r *Registry) Resolve(username string) (Transport, bool) {
	id, ok := r.byUsername[username]
	if !ok {
		return nil, false
	}
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.transport, true
}

// Deregister removes id and returns the username it was bound to. Removing an
// unknown or already evicted identity is a no-op and reports false.
func (r *Registry) Deregister(id ConnID) (string, bool) {
	e, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)
	if r.byUsername[e.username] == id {
		delete(r.byUsername, e.username)
	}
	return e.username, true
}

// Registered reports whether id is still addressable.
func (r *Registry) Registered(id ConnID) bool {
	_, ok := r.conns[id]
	return ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	return len(r.conns)
}

// Usernames returns registered usernames in registration order.
func (r *Registry) Usernames() []string {
	entries := r.ordered()
	users := make([]string, len(entries))
	for i, e := range entries {
		users[i] = e.username
	}
	return users
}

// Transports returns every registered transport in registration order.
func (r *Registry) Transports() []Transport {
	entries := r.ordered()
	transports := make([]Transport, len(entries))
	for i, e := range entries {
		transports[i] = e.transport
	}
	return transports
}

func (r *Registry) ordered() []*entry {
	entries := make([]*entry, 0, len(r.conns))
	for _, e := range r.conns {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	return entries
}
