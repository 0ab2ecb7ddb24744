// Package groups owns group identity, naming and membership, and applies the
// disband rule when membership shrinks.
package groups

import (
	"sort"

	"github.com/google/uuid"
)

// MinMembers is the smallest membership a group keeps after cleanup.
const MinMembers = 2

// ShouldDisband reports whether a group with memberCount members is deleted.
func ShouldDisband(memberCount int) bool {
	return memberCount < MinMembers
}

// Group is a snapshot of one group. Members are usernames, online or not.
type Group struct {
	ID      string
	Name    string
	Members []string
}

// Has reports whether username is a member of g.
func (g Group) Has(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}

type group struct {
	Group
	seq uint64
}

func (g *group) snapshot() Group {
	return Group{ID: g.ID, Name: g.Name, Members: append([]string(nil), g.Members...)}
}

// Removal describes the outcome of Directory.RemoveMember.
type Removal struct {
	// Affected lists every remaining member of a touched group, deduplicated,
	// in first-seen order. Each needs a refreshed group list.
	Affected []string
	// Disbanded lists the identities of deleted groups.
	Disbanded []string
}

// Directory is not safe for concurrent use. The hub serialises access to it.
type Directory struct {
	groups map[string]*group
	seq    uint64
	newID  func() string
}

// NewDirectory returns an empty directory minting uuid v4 group identities.
func NewDirectory() *Directory {
	return NewDirectoryWithIDs(uuid.NewString)
}

// NewDirectoryWithIDs returns an empty directory using newID for identities.
func NewDirectoryWithIDs(newID func() string) *Directory {
	return &Directory{
		groups: make(map[string]*group),
		newID:  newID,
	}
}

// Create stores a group holding the deduplicated union of requested and
// creator, in that order. Creation is never refused: a group that resolves to
// fewer than MinMembers survives until a cleanup pass touches it.
func (d *Directory) Create(creator, name string, requested []string) Group {
	seen := make(map[string]bool, len(requested)+1)
	members := make([]string, 0, len(requested)+1)
	for _, m := range append(append([]string(nil), requested...), creator) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		members = append(members, m)
	}

	d.seq++
	g := &group{
		Group: Group{ID: d.newID(), Name: name, Members: members},
		seq:   d.seq,
	}
	d.groups[g.ID] = g
	return g.snapshot()
}

// Get returns the group with id.
func (d *Directory) Get(id string) (Group, bool) {
	g, ok := d.groups[id]
	if !ok {
		return Group{}, false
	}
	return g.snapshot(), true
}

// Len returns the number of stored groups.
func (d *Directory) Len() int {
	return len(d.groups)
}

// ListFor returns every group containing username in creation order.
func (d *Directory) ListFor(username string) []Group {
	var matched []*group
	for _, g := range d.groups {
		if g.Has(username) {
			matched = append(matched, g)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	out := make([]Group, len(matched))
	for i, g := range matched {
		out[i] = g.snapshot()
	}
	return out
}

// RemoveMember drops username from every group it belongs to and disbands
// groups left below MinMembers.
func (d *Directory) RemoveMember(username string) Removal {
	var touched []*group
	for _, g := range d.groups {
		if g.Has(username) {
			touched = append(touched, g)
		}
	}
	sort.Slice(touched, func(i, j int) bool { return touched[i].seq < touched[j].seq })

	var res Removal
	seen := make(map[string]bool)
	for _, g := range touched {
		remaining := g.Members[:0:0]
		for _, m := range g.Members {
			if m != username {
				remaining = append(remaining, m)
			}
		}
		g.Members = remaining

		if ShouldDisband(len(remaining)) {
			delete(d.groups, g.ID)
			res.Disbanded = append(res.Disbanded, g.ID)
		}
		for _, m := range remaining {
			if !seen[m] {
				seen[m] = true
				res.Affected = append(res.Affected, m)
			}
		}
	}
	return res
}
