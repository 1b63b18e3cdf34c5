// Package conversation provides the normalized view over the three
// conversation sources (team channel, private threads, groups) and the
// aggregation that merges them into one sidebar list.
package conversation

import (
	"fmt"
	"strconv"
	"time"

	"worktrack/services/messaging/domain/group"
)

// Kind discriminates the underlying conversation source.
type Kind string

const (
	KindTeam    Kind = "team"
	KindPrivate Kind = "private"
	KindGroup   Kind = "group"
)

// Key uniquely identifies a conversation across sources. Identity is
// source specific: the team name, the counterpart user id, or the group id.
type Key struct {
	Kind     Kind   `json:"kind"`
	Identity string `json:"identity"`
}

// String renders the composite key for logging.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Kind, k.Identity)
}

// GroupKey builds the key for a group conversation.
func GroupKey(groupID int64) Key {
	return Key{Kind: KindGroup, Identity: strconv.FormatInt(groupID, 10)}
}

// Conversation is a projection over one source. It is rebuilt on every
// aggregation pass; local mutation of an instance is never meaningful.
type Conversation struct {
	Key                Key       `json:"key"`
	DisplayName        string    `json:"display_name"`
	LastMessagePreview string    `json:"last_message_preview,omitempty"`
	LastMessageAt      time.Time `json:"last_message_at"`
	UnreadCount        int       `json:"unread_count"`
	MemberCount        int       `json:"member_count,omitempty"`
}

// FromGroup is the normalization boundary for the group source.
func FromGroup(g group.Group) Conversation {
	return Conversation{
		Key:                GroupKey(g.ID),
		DisplayName:        g.Name,
		LastMessagePreview: g.LastMessage,
		LastMessageAt:      g.UpdatedAt,
		UnreadCount:        g.UnreadCount,
		MemberCount:        g.MembersCount,
	}
}
