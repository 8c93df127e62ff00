package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, so a service can
// run several of them inside a single transaction.
type Store struct {
	db         *gorm.DB
	Users      *UserRepository
	Posts      *PostRepository
	Votes      *VoteRepository
	Activities *ActivityRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Posts:      NewPostRepository(db),
		Votes:      NewVoteRepository(db),
		Activities: NewActivityRepository(db),
	}
}

// Transaction runs fn against a Store bound to one transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
