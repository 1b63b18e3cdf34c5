package message

import (
	"context"

	"github.com/rs/zerolog"

	"worktrack/services/messaging/domain/conversation"
	"worktrack/services/messaging/domain/identity"
	"worktrack/services/messaging/utils/platformerrors"
)

// Repository defines the backend operations the message service needs.
type Repository interface {
	SendMessage(ctx context.Context, target conversation.Key, out Outgoing) (*Message, error)
	DeleteMessage(ctx context.Context, messageID int64) error
}

// View is the locally held message snapshot. Deletion removes the message
// from it optimistically, ahead of backend confirmation.
type View interface {
	DropMessage(target conversation.Key, messageID int64)
}

// Refresher forces an immediate re-synchronization after a mutation.
type Refresher interface {
	ForceRefresh()
}

// Service defines the interface for outbound message operations.
type Service interface {
	Send(ctx context.Context, id identity.Identity, target conversation.Key, out Outgoing) (*Message, error)
	Delete(ctx context.Context, id identity.Identity, msg Message) error
}

// DefaultService implements Service on top of the backend repository.
type DefaultService struct {
	repo      Repository
	view      View
	refresher Refresher
	log       zerolog.Logger
}

// NewService creates a new message service.
func NewService(repo Repository, view View, refresher Refresher, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:      repo,
		view:      view,
		refresher: refresher,
		log:       log.With().Str("component", "message-service").Logger(),
	}
}

// Send validates and submits an outgoing message. Validation failures are
// resolved locally without reaching the network. A successful send forces
// re-synchronization of the active list and the conversation list, which
// supersedes the next scheduled tick.
func (s *DefaultService) Send(ctx context.Context, id identity.Identity, target conversation.Key, out Outgoing) (*Message, error) {
	if err := out.Validate(); err != nil {
		return nil, err
	}

	sent, err := s.repo.SendMessage(ctx, target, out)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("conversation", target.String()).Int64("message_id", sent.ID).Msg("message sent")
	s.forceRefresh()
	return sent, nil
}

// Delete removes one of the requester's own messages. Ownership is checked
// before any network call. The local view drops the message immediately;
// the next poll is authoritative either way, so a failed delete surfaces
// the message again on the following cycle.
func (s *DefaultService) Delete(ctx context.Context, id identity.Identity, msg Message) error {
	if msg.SenderID != id.UserID {
		return platformerrors.Permission("only the sender may delete a message").
			WithContext("message_id", msg.ID).
			WithContext("sender_id", msg.SenderID)
	}

	if s.view != nil {
		s.view.DropMessage(msg.Conversation, msg.ID)
	}

	if err := s.repo.DeleteMessage(ctx, msg.ID); err != nil {
		s.log.Warn().Err(err).Int64("message_id", msg.ID).Msg("delete failed after optimistic removal")
		s.forceRefresh()
		return err
	}

	s.forceRefresh()
	return nil
}

func (s *DefaultService) forceRefresh() {
	if s.refresher != nil {
		s.refresher.ForceRefresh()
	}
}
