package app

import (
	"context"
	"errors"

	"postboard/internal/metrics"
	"postboard/internal/model"
	"postboard/internal/repository"
)

// DirUp adds a vote. Any other direction removes it.
const DirUp = 1

type VoteService struct {
	store    *repository.Store
	activity *ActivityService
}

type VoteInput struct {
	PostID uint
	UserID uint
	Dir    int
}

// VoteResult tells whether the call added or removed the vote.
type VoteResult struct {
	Added bool
}

func NewVoteService(store *repository.Store, activity *ActivityService) *VoteService {
	return &VoteService{
		store:    store,
		activity: activity,
	}
}

// Cast adds (dir == 1) or removes (any other dir) the user's vote on a post.
// Adding twice fails with ErrVoteConflict, removing a missing vote with
// ErrVoteNotFound. The existence check and the write share one transaction, and
// the composite primary key on votes turns a concurrent duplicate insert into
// ErrVoteConflict as well.
func (s *VoteService) Cast(ctx context.Context, input VoteInput) (*VoteResult, error) {
	if input.PostID == 0 || input.UserID == 0 || input.Dir > DirUp {
		return nil, ErrInvalidInput
	}
	add := input.Dir == DirUp

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Posts.Exists(ctx, input.PostID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPostNotFound
		}

		if add {
			return addVote(ctx, tx, input.PostID, input.UserID)
		}
		return removeVote(ctx, tx, input.PostID, input.UserID)
	})
	if err != nil {
		return nil, err
	}

	kind := model.ActivityVoteRemoved
	direction := "remove"
	if add {
		kind = model.ActivityVoteAdded
		direction = "add"
	}
	metrics.IncVotes(direction)
	postID := input.PostID
	s.activity.Record(ctx, input.UserID, kind, &postID)
	return &VoteResult{Added: add}, nil
}

func addVote(ctx context.Context, tx *repository.Store, postID, userID uint) error {
	found, err := tx.Votes.Exists(ctx, postID, userID)
	if err != nil {
		return err
	}
	if found {
		return ErrVoteConflict
	}
	if err := tx.Votes.Create(ctx, &model.Vote{PostID: postID, UserID: userID}); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrVoteConflict
		}
		return err
	}
	return nil
}

func removeVote(ctx context.Context, tx *repository.Store, postID, userID uint) error {
	removed, err := tx.Votes.Delete(ctx, postID, userID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrVoteNotFound
	}
	return nil
}
