package protocol

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

// TestParse covers both the tagged and the legacy shape-inferred forms.
func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Frame
	}{
		{
			name: "tagged join",
			raw:  `{"type":"join","username":"alice"}`,
			want: Join{Username: "alice"},
		},
		{
			name: "untagged join",
			raw:  `{"username":"alice"}`,
			want: Join{Username: "alice"},
		},
		{
			name: "create group",
			raw:  `{"type":"createGroup","name":"team","members":["bob","","carol"]}`,
			want: CreateGroup{Name: "team", Members: []string{"bob", "carol"}},
		},
		{
			name: "group message",
			raw:  `{"type":"groupMessage","groupId":"g1","from":"alice","text":"hi"}`,
			want: GroupMessage{GroupID: "g1", From: "alice", Text: "hi"},
		},
		{
			name: "untagged direct message",
			raw:  `{"from":"alice","to":"bob","text":"hi"}`,
			want: DirectMessage{From: "alice", To: "bob", Text: "hi"},
		},
		{
			name: "tagged direct message",
			raw:  `{"type":"message","from":"alice","to":"bob","text":"hi"}`,
			want: DirectMessage{From: "alice", To: "bob", Text: "hi"},
		},
		{
			name: "unknown tag falls back to shape",
			raw:  `{"type":"private","from":"alice","to":"bob","text":"hi"}`,
			want: DirectMessage{From: "alice", To: "bob", Text: "hi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse(%s) returned error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%s) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestParseRejects verifies every malformed frame maps to a sentinel error.
func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"invalid json", `{not json`, ErrMalformed},
		{"array instead of object", `["join"]`, ErrMalformed},
		{"members not strings", `{"type":"createGroup","name":"x","members":[1]}`, ErrMalformed},
		{"join without username", `{"type":"join"}`, ErrMissingField},
		{"create group without name", `{"type":"createGroup","members":["bob"]}`, ErrMissingField},
		{"create group blank name", `{"type":"createGroup","name":"  ","members":["bob"]}`, ErrMissingField},
		{"create group without members", `{"type":"createGroup","name":"x","members":[]}`, ErrMissingField},
		{"group message without group", `{"type":"groupMessage","from":"a","text":"hi"}`, ErrMissingField},
		{"group message without text", `{"type":"groupMessage","groupId":"g","from":"a"}`, ErrMissingField},
		{"tagged direct without text", `{"type":"message","from":"a","to":"b"}`, ErrMissingField},
		{"untagged direct without text", `{"from":"a","to":"b"}`, ErrUnrecognized},
		{"empty object", `{}`, ErrUnrecognized},
		{"unknown tag", `{"type":"typing"}`, ErrUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Parse([]byte(tt.raw))
			if err == nil {
				t.Fatalf("Parse(%s) = %#v, want error", tt.raw, frame)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%s) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestOutboundEnvelopes(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 123456789, time.FixedZone("X", 3600))

	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "empty presence",
			v:    NewOnlineCount(nil),
			want: `{"type":"onlineCount","count":0,"users":[]}`,
		},
		{
			name: "presence",
			v:    NewOnlineCount([]string{"alice", "bob"}),
			want: `{"type":"onlineCount","count":2,"users":["alice","bob"]}`,
		},
		{
			name: "empty group list",
			v:    NewGroupList(nil),
			want: `{"type":"groupList","groups":[]}`,
		},
		{
			name: "group message",
			v:    NewGroupMessage(GroupMessage{GroupID: "g1", From: "alice", Text: "hi"}, at),
			want: `{"type":"groupMessage","groupId":"g1","from":"alice","text":"hi","timestamp":"2024-03-09T13:05:07.123Z"}`,
		},
		{
			name: "direct message",
			v:    NewMessage(DirectMessage{From: "alice", To: "bob", Text: "hi"}, at),
			want: `{"type":"message","from":"alice","to":"bob","text":"hi","timestamp":"2024-03-09T13:05:07.123Z"}`,
		},
		{
			name: "group created",
			v:    NewGroupCreated(Group{ID: "g1", Name: "team", Members: []string{"bob", "alice"}}),
			want: `{"type":"groupCreated","group":{"id":"g1","name":"team","members":["bob","alice"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.v)
			if err != nil {
				t.Fatalf("Encode returned error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode = %s, want %s", got, tt.want)
			}
			if !json.Valid(got) {
				t.Errorf("Encode produced invalid JSON: %s", got)
			}
		})
	}
}
