// Package protocol defines the JSON envelopes exchanged with chat clients and
// the parse step that turns raw inbound frames into a closed set of variants.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Frame kinds as they appear in the "type" tag.
const (
	KindJoin         = "join"
	KindCreateGroup  = "createGroup"
	KindGroupMessage = "groupMessage"
	KindMessage      = "message"
)

var (
	// ErrMalformed reports a frame that is not a JSON object of the expected shape.
	ErrMalformed = errors.New("malformed frame")
	// ErrMissingField reports a recognised frame lacking a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrUnrecognized reports a frame whose tag and shape match no known variant.
	ErrUnrecognized = errors.New("unrecognized frame")
)

// Frame is one normalised inbound envelope. The concrete type is one of
// Join, CreateGroup, GroupMessage or DirectMessage.
type Frame interface {
	Kind() string
}

// Join binds a username to the sending connection.
type Join struct {
	Username string
}

// CreateGroup asks for a new group containing Members and the sender.
type CreateGroup struct {
	Name    string
	Members []string
}

// GroupMessage relays Text to every online member of GroupID.
type GroupMessage struct {
	GroupID string
	From    string
	Text    string
}

// DirectMessage relays Text from one user to another.
type DirectMessage struct {
	From string
	To   string
	Text string
}

func (Join) Kind() string          { return KindJoin }
func (CreateGroup) Kind() string   { return KindCreateGroup }
func (GroupMessage) Kind() string  { return KindGroupMessage }
func (DirectMessage) Kind() string { return KindMessage }

// inbound is the union of every field any inbound variant may carry.
type inbound struct {
	Type     string   `json:"type"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Members  []string `json:"members"`
	GroupID  string   `json:"groupId"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Text     string   `json:"text"`
}

// Parse decodes raw and classifies it. A "type" tag selects the variant when
// it names one; otherwise the shape decides: a username means join, and
// from+to+text means a direct message.
func Parse(raw []byte) (Frame, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch in.Type {
	case KindJoin:
		return parseJoin(in)
	case KindCreateGroup:
		return parseCreateGroup(in)
	case KindGroupMessage:
		return parseGroupMessage(in)
	case KindMessage:
		return parseDirect(in)
	}

	switch {
	case in.Username != "":
		return parseJoin(in)
	case in.From != "" && in.To != "" && in.Text != "":
		return parseDirect(in)
	}

	if in.Type != "" {
		return nil, fmt.Errorf("%w: type %q", ErrUnrecognized, in.Type)
	}
	return nil, ErrUnrecognized
}

func parseJoin(in inbound) (Frame, error) {
	if in.Username == "" {
		return nil, fmt.Errorf("%w: join requires username", ErrMissingField)
	}
	return Join{Username: in.Username}, nil
}

func parseCreateGroup(in inbound) (Frame, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: createGroup requires name", ErrMissingField)
	}

	members := make([]string, 0, len(in.Members))
	for _, m := range in.Members {
		if m != "" {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: createGroup requires members", ErrMissingField)
	}
	return CreateGroup{Name: in.Name, Members: members}, nil
}

func parseGroupMessage(in inbound) (Frame, error) {
	switch {
	case in.GroupID == "":
		return nil, fmt.Errorf("%w: groupMessage requires groupId", ErrMissingField)
	case in.From == "":
		return nil, fmt.Errorf("%w: groupMessage requires from", ErrMissingField)
	case in.Text == "":
		return nil, fmt.Errorf("%w: groupMessage requires text", ErrMissingField)
	}
	return GroupMessage{GroupID: in.GroupID, From: in.From, Text: in.Text}, nil
}

func parseDirect(in inbound) (Frame, error) {
	if in.From == "" || in.To == "" || in.Text == "" {
		return nil, fmt.Errorf("%w: message requires from, to and text", ErrMissingField)
	}
	return DirectMessage{From: in.From, To: in.To, Text: in.Text}, nil
}
