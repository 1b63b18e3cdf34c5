package backend

import (
	"context"
	"time"

	"worktrack/services/messaging/domain/conversation"
	"worktrack/services/messaging/domain/group"
)

// threadDTO is the backend's pre-normalized team/private conversation shape.
type threadDTO struct {
	Kind               string    `json:"kind"`
	Identity           string    `json:"identity"`
	DisplayName        string    `json:"display_name"`
	LastMessagePreview string    `json:"last_message"`
	LastMessageAt      time.Time `json:"last_message_at"`
	UnreadCount        int       `json:"unread_count"`
}

func (d threadDTO) toDomain() conversation.Conversation {
	return conversation.Conversation{
		Key: conversation.Key{
			Kind:     conversation.Kind(d.Kind),
			Identity: d.Identity,
		},
		DisplayName:        d.DisplayName,
		LastMessagePreview: d.LastMessagePreview,
		LastMessageAt:      d.LastMessageAt,
		UnreadCount:        d.UnreadCount,
	}
}

// ListThreads fetches the pre-normalized team and private conversations.
func (c *Client) ListThreads(ctx context.Context) ([]conversation.Conversation, error) {
	var result struct {
		Data []threadDTO `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/chats/threads")
	if err := c.wrap("list threads", resp, err); err != nil {
		return nil, err
	}

	threads := make([]conversation.Conversation, len(result.Data))
	for i, d := range result.Data {
		threads[i] = d.toDomain()
	}
	return threads, nil
}

// ListGroups fetches the caller's groups with their conversation metadata.
func (c *Client) ListGroups(ctx context.Context) ([]group.Group, error) {
	var result struct {
		Data []group.Group `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/groups")
	if err := c.wrap("list groups", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}
