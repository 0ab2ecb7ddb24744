package registry

import (
	"fmt"
	"reflect"
	"testing"
)

type fakeTransport struct {
	name string
}

func (f *fakeTransport) Send([]byte) bool { return true }

func sequentialIDs() func() ConnID {
	n := 0
	return func() ConnID {
		n++
		return ConnID(fmt.Sprintf("conn-%d", n))
	}
}

func TestRegisterAndResolve(t *testing.T) {
	r := NewWithIDs(sequentialIDs())
	alice := &fakeTransport{name: "alice"}

	id := r.Register("alice", alice)
	if id != "conn-1" {
		t.Errorf("Register returned %q, want conn-1", id)
	}

	got, ok := r.Resolve("alice")
	if !ok || got != alice {
		t.Fatalf("Resolve(alice) = %v, %v; want alice transport", got, ok)
	}

	if _, ok := r.Resolve("bob"); ok {
		t.Error("Resolve(bob) succeeded for an unknown user")
	}
}

// TestRegisterEvictsPreviousConnection checks that the last join wins.
func TestRegisterEvictsPreviousConnection(t *testing.T) {
	r := NewWithIDs(sequentialIDs())
	first := &fakeTransport{name: "first"}
	second := &fakeTransport{name: "second"}

	oldID := r.Register("alice", first)
	newID := r.Register("alice", second)

	if oldID == newID {
		t.Fatal("identities were reused")
	}
	if r.Registered(oldID) {
		t.Error("evicted connection is still registered")
	}
	if got, _ := r.Resolve("alice"); got != second {
		t.Errorf("Resolve(alice) returned %v, want the second transport", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	// Closing the evicted transport later must not unbind the new one.
	if _, ok := r.Deregister(oldID); ok {
		t.Error("Deregister of an evicted identity reported success")
	}
	if got, ok := r.Resolve("alice"); !ok || got != second {
		t.Error("deregistering the evicted identity unbound the live connection")
	}
}

func TestDeregisterIsIdempotent(t *testing.T) {
	r := NewWithIDs(sequentialIDs())
	id := r.Register("alice", &fakeTransport{})

	username, ok := r.Deregister(id)
	if !ok || username != "alice" {
		t.Fatalf("Deregister = %q, %v; want alice, true", username, ok)
	}
	if _, ok := r.Deregister(id); ok {
		t.Error("second Deregister reported success")
	}
	if _, ok := r.Deregister("never-issued"); ok {
		t.Error("Deregister of unknown identity reported success")
	}
	if _, ok := r.Resolve("alice"); ok {
		t.Error("username still resolves after deregistration")
	}
}

func TestUsernamesFollowRegistrationOrder(t *testing.T) {
	r := NewWithIDs(sequentialIDs())
	for _, name := range []string{"carol", "alice", "bob"} {
		r.Register(name, &fakeTransport{name: name})
	}
	r.Register("carol", &fakeTransport{name: "carol-2"})

	want := []string{"alice", "bob", "carol"}
	if got := r.Usernames(); !reflect.DeepEqual(got, want) {
		t.Errorf("Usernames() = %v, want %v", got, want)
	}

	transports := r.Transports()
	if len(transports) != 3 {
		t.Fatalf("Transports() returned %d entries, want 3", len(transports))
	}
	if last := transports[2].(*fakeTransport); last.name != "carol-2" {
		t.Errorf("last transport = %q, want carol-2", last.name)
	}
}

func TestNewMintsDistinctIdentities(t *testing.T) {
	r := New()
	seen := make(map[ConnID]bool)
	for i := 0; i < 100; i++ {
		id := r.Register(fmt.Sprintf("user-%d", i), &fakeTransport{})
		if seen[id] {
			t.Fatalf("identity %q minted twice", id)
		}
		seen[id] = true
	}
}
