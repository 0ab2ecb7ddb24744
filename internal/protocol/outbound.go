package protocol

import (
	"encoding/json"
	"time"
)

// Outbound envelope type tags.
const (
	TypeOnlineCount  = "onlineCount"
	TypeGroupList    = "groupList"
	TypeGroupMessage = "groupMessage"
	TypeMessage      = "message"
	TypeGroupCreated = "groupCreated"
)

// TimestampLayout renders UTC instants with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Group is the wire view of a group.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// OnlineCount is the presence snapshot sent on every join and leave.
type OnlineCount struct {
	Type  string   `json:"type"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// GroupList is the authoritative list of groups a user belongs to.
type GroupList struct {
	Type   string  `json:"type"`
	Groups []Group `json:"groups"`
}

// GroupMessageOut is a group message as relayed to members.
type GroupMessageOut struct {
	Type      string `json:"type"`
	GroupID   string `json:"groupId"`
	From      string `json:"from"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// MessageOut is a direct message as relayed to its recipient.
type MessageOut struct {
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// GroupCreated is kept for clients that predate groupList.
type GroupCreated struct {
	Type  string `json:"type"`
	Group Group  `json:"group"`
}

// NewOnlineCount builds a presence snapshot for users.
func NewOnlineCount(users []string) OnlineCount {
	if users == nil {
		users = []string{}
	}
	return OnlineCount{Type: TypeOnlineCount, Count: len(users), Users: users}
}

// NewGroupList builds a group list envelope. A nil slice encodes as [].
func NewGroupList(groups []Group) GroupList {
	if groups == nil {
		groups = []Group{}
	}
	return GroupList{Type: TypeGroupList, Groups: groups}
}

// NewGroupMessage stamps a group message with at.
func NewGroupMessage(m GroupMessage, at time.Time) GroupMessageOut {
	return GroupMessageOut{
		Type:      TypeGroupMessage,
		GroupID:   m.GroupID,
		From:      m.From,
		Text:      m.Text,
		Timestamp: FormatTimestamp(at),
	}
}

// NewMessage stamps a direct message with at.
func NewMessage(m DirectMessage, at time.Time) MessageOut {
	return MessageOut{
		Type:      TypeMessage,
		From:      m.From,
		To:        m.To,
		Text:      m.Text,
		Timestamp: FormatTimestamp(at),
	}
}

// NewGroupCreated wraps g in the compatibility envelope.
func NewGroupCreated(g Group) GroupCreated {
	return GroupCreated{Type: TypeGroupCreated, Group: g}
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Encode marshals an outbound envelope.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
