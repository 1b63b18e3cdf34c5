package progress

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"worktrack/services/messaging/domain/identity"
	"worktrack/services/messaging/utils/platformerrors"
)

// Repository defines the backend operations the thread service needs.
type Repository interface {
	ListProgressComments(ctx context.Context, progressID int64) ([]Comment, error)
	AddProgressComment(ctx context.Context, progressID int64, body string, parentID *int64) (*Comment, error)
}

// Service defines the interface for reply-thread operations.
type Service interface {
	Add(ctx context.Context, id identity.Identity, progressID int64, body string, parentID *int64) (*Comment, error)
	List(ctx context.Context, id identity.Identity, progressID int64) ([]Comment, error)
}

// DefaultService implements Service on top of the backend repository.
type DefaultService struct {
	repo Repository
	log  zerolog.Logger
}

// NewService creates a new thread service.
func NewService(repo Repository, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo: repo,
		log:  log.With().Str("component", "progress-service").Logger(),
	}
}

// Add appends a comment or reply to a progress-update thread. A reply must
// reference an existing top-level comment; replying to a reply is rejected
// before the request goes out.
func (s *DefaultService) Add(ctx context.Context, id identity.Identity, progressID int64, body string, parentID *int64) (*Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, platformerrors.Validation("comment body must not be empty")
	}

	if parentID != nil {
		if err := s.verifyTopLevel(ctx, progressID, *parentID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.AddProgressComment(ctx, progressID, body, parentID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int64("progress_id", progressID).Int64("comment_id", created.ID).Msg("comment added")
	return created, nil
}

// List returns the full thread for a progress update: top-level comments
// each embedding replies ordered by CreatedAt ascending. No pagination.
func (s *DefaultService) List(ctx context.Context, id identity.Identity, progressID int64) ([]Comment, error) {
	flat, err := s.repo.ListProgressComments(ctx, progressID)
	if err != nil {
		return nil, err
	}
	return BuildThread(flat), nil
}

func (s *DefaultService) verifyTopLevel(ctx context.Context, progressID, parentID int64) error {
	flat, err := s.repo.ListProgressComments(ctx, progressID)
	if err != nil {
		return err
	}
	for _, c := range flat {
		if c.ID == parentID {
			if !c.IsTopLevel() {
				return platformerrors.Validation("replies can only target top-level comments").
					WithContext("parent_id", parentID)
			}
			return nil
		}
	}
	return platformerrors.NotFound("parent comment does not exist").
		WithContext("parent_id", parentID)
}
