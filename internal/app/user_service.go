package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"postboard/internal/model"
	"postboard/internal/repository"
)

// UserCache is a read-through cache in front of user lookups. GetUser returns
// ok with a nil user for an account marked deleted, and SetUser must not
// overwrite such a marker.
type UserCache interface {
	GetUser(ctx context.Context, id uint) (*model.User, bool, error)
	SetUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id uint) error
	MarkDeleted(ctx context.Context, id uint) error
}

type UserService struct {
	store *repository.Store
	cache UserCache
	log   zerolog.Logger
}

// UserPatch holds the self-service fields a user may change. Nil fields are left as they are.
type UserPatch struct {
	Email *string
}

func NewUserService(store *repository.Store, cache UserCache, log zerolog.Logger) *UserService {
	return &UserService{
		store: store,
		cache: cache,
		log:   log,
	}
}

// Get returns the user or ErrUserNotFound, reading through the cache.
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}

	if s.cache != nil {
		user, ok, err := s.cache.GetUser(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Uint("user_id", id).Msg("user cache read failed")
		} else if ok {
			if user == nil {
				return nil, ErrUserNotFound
			}
			return user, nil
		}
	}

	user, err := s.Subject(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetUser(ctx, user); err != nil {
			s.log.Warn().Err(err).Uint("user_id", id).Msg("user cache write failed")
		}
	}
	return user, nil
}

// Subject loads the user from the database, bypassing the cache. Token subjects
// are resolved here so a deleted account stops authenticating as soon as the
// delete commits.
func (s *UserService) Subject(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) Update(ctx context.Context, requesterID, id uint, patch UserPatch) (*model.User, error) {
	var updated *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if user.ID != requesterID {
			return ErrForbidden
		}

		if patch.Email != nil {
			email := normalizeEmail(*patch.Email)
			if email == "" {
				return ErrInvalidInput
			}
			if email != user.Email {
				if err := tx.Users.UpdateEmail(ctx, id, email); err != nil {
					if errors.Is(err, repository.ErrDuplicateKey) {
						return ErrEmailExists
					}
					return err
				}
				user.Email = email
			}
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return updated, nil
}

// Delete removes the user together with their votes, their posts and the votes
// cast on those posts.
func (s *UserService) Delete(ctx context.Context, requesterID, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if user.ID != requesterID {
			return ErrForbidden
		}

		postIDs, err := tx.Posts.ListIDsByOwner(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Votes.DeleteByPosts(ctx, postIDs); err != nil {
			return err
		}
		if err := tx.Votes.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Posts.DeleteByOwner(ctx, id); err != nil {
			return err
		}
		if err := tx.Activities.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.MarkDeleted(ctx, id); err != nil {
			s.log.Warn().Err(err).Uint("user_id", id).Msg("user cache delete marker failed")
		}
	}
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteUser(ctx, id); err != nil {
		s.log.Warn().Err(err).Uint("user_id", id).Msg("user cache invalidation failed")
	}
}
