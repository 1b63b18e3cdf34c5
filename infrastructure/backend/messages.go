package backend

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"worktrack/services/messaging/domain/conversation"
	"worktrack/services/messaging/domain/message"
	"worktrack/services/messaging/utils/platformerrors"
)

// messageDTO is the backend's wire shape for a chat message.
type messageDTO struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"sender_id"`
	Body           string    `json:"message"`
	AttachmentPath string    `json:"attachment"`
	CreatedAt      time.Time `json:"created_at"`
}

func (d messageDTO) toDomain(target conversation.Key) message.Message {
	return message.Message{
		ID:             d.ID,
		Conversation:   target,
		SenderID:       d.SenderID,
		Body:           d.Body,
		AttachmentPath: d.AttachmentPath,
		CreatedAt:      d.CreatedAt,
	}
}

// messagesPath dispatches to the kind-specific endpoint.
func messagesPath(target conversation.Key) (string, error) {
	switch target.Kind {
	case conversation.KindTeam:
		return fmt.Sprintf("/chats/team/%s/messages", target.Identity), nil
	case conversation.KindPrivate:
		return fmt.Sprintf("/chats/private/%s/messages", target.Identity), nil
	case conversation.KindGroup:
		return fmt.Sprintf("/groups/%s/messages", target.Identity), nil
	default:
		return "", platformerrors.Validation("unknown conversation kind").WithContext("kind", string(target.Kind))
	}
}

// ListMessages fetches the full message list for one conversation, in the
// source's authoritative oldest-first order.
func (c *Client) ListMessages(ctx context.Context, target conversation.Key) ([]message.Message, error) {
	path, err := messagesPath(target)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []messageDTO `json:"data"`
	}
	resp, restyErr := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(path)
	if err := c.wrap("list messages", resp, restyErr); err != nil {
		return nil, err
	}

	messages := make([]message.Message, len(result.Data))
	for i, d := range result.Data {
		messages[i] = d.toDomain(target)
	}
	return messages, nil
}

// SendMessage submits an outgoing message. The target field is kind
// specific (team name, receiver_id, or group id in the path); the request
// goes out as a multipart form when an attachment rides along, and as plain
// form fields otherwise.
func (c *Client) SendMessage(ctx context.Context, target conversation.Key, out message.Outgoing) (*message.Message, error) {
	var created messageDTO
	req := c.http.R().
		SetContext(ctx).
		SetResult(&created)

	var path string
	switch target.Kind {
	case conversation.KindTeam:
		path = "/chats/team/messages"
		req.SetFormData(map[string]string{"team": target.Identity, "message": out.Body})
	case conversation.KindPrivate:
		path = "/chats/private/messages"
		req.SetFormData(map[string]string{"receiver_id": target.Identity, "message": out.Body})
	case conversation.KindGroup:
		path = fmt.Sprintf("/groups/%s/messages", target.Identity)
		req.SetFormData(map[string]string{"message": out.Body})
	default:
		return nil, platformerrors.Validation("unknown conversation kind").WithContext("kind", string(target.Kind))
	}

	if out.Attachment != nil {
		req.SetFileReader("attachment", out.Attachment.Filename, bytes.NewReader(out.Attachment.Data))
	}

	resp, err := req.Post(path)
	if err := c.wrap("send message", resp, err); err != nil {
		return nil, err
	}

	msg := created.toDomain(target)
	return &msg, nil
}

// DeleteMessage permanently removes a message by id.
func (c *Client) DeleteMessage(ctx context.Context, messageID int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/messages/" + strconv.FormatInt(messageID, 10))
	return c.wrap("delete message", resp, err)
}
