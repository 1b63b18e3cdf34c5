// Package message implements the outbound message contract and the
// ownership rules around deletion.
package message

import (
	"strings"
	"time"

	"worktrack/services/messaging/domain/attachment"
	"worktrack/services/messaging/domain/conversation"
	"worktrack/services/messaging/utils/platformerrors"
)

// Message belongs to exactly one conversation. IDs are server-assigned.
type Message struct {
	ID             int64            `json:"id"`
	Conversation   conversation.Key `json:"conversation"`
	SenderID       int64            `json:"sender_id"`
	Body           string           `json:"message,omitempty"`
	AttachmentPath string           `json:"attachment,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// HasContent reports whether the message satisfies the body-or-attachment
// invariant: a message never carries both an empty body and no attachment.
func (m *Message) HasContent() bool {
	return strings.TrimSpace(m.Body) != "" || m.AttachmentPath != ""
}

// Outgoing is a message being composed. The selected attachment is
// single-writer UI state; it is cleared atomically on successful send.
type Outgoing struct {
	Body       string
	Attachment *attachment.Upload
}

// Validate enforces the send contract before any network call.
func (o Outgoing) Validate() error {
	if strings.TrimSpace(o.Body) == "" && o.Attachment == nil {
		return platformerrors.Validation("message needs a body or an attachment")
	}
	if o.Attachment != nil {
		return attachment.Validate(attachment.FieldChatAttachment, *o.Attachment)
	}
	return nil
}
