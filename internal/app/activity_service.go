package app

import (
	"context"

	"github.com/rs/zerolog"

	"postboard/internal/model"
	"postboard/internal/repository"
)

// ActivityPublisher delivers activity records to wherever they are persisted.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

// RepositoryPublisher writes activity straight to the database. It is used when no
// message broker is configured.
type RepositoryPublisher struct {
	repo *repository.ActivityRepository
}

func NewRepositoryPublisher(repo *repository.ActivityRepository) *RepositoryPublisher {
	return &RepositoryPublisher{repo: repo}
}

func (p *RepositoryPublisher) Publish(ctx context.Context, activity model.Activity) error {
	return p.repo.Create(ctx, &activity)
}

// ActivityService records user actions after they commit and lists them back.
// Recording is best effort: a failed publish is logged and never fails the caller.
type ActivityService struct {
	repo      *repository.ActivityRepository
	publisher ActivityPublisher
	log       zerolog.Logger
}

func NewActivityService(repo *repository.ActivityRepository, publisher ActivityPublisher, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

func (s *ActivityService) Record(ctx context.Context, userID uint, kind string, postID *uint) {
	if s == nil || s.publisher == nil {
		return
	}
	activity := model.Activity{
		UserID: userID,
		Kind:   kind,
		PostID: postID,
	}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Uint("user_id", userID).Msg("record activity failed")
	}
}

func (s *ActivityService) ListForUser(ctx context.Context, requesterID, userID uint, limit int) ([]model.Activity, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if requesterID != userID {
		return nil, ErrForbidden
	}
	return s.repo.ListByUserID(ctx, userID, limit)
}
