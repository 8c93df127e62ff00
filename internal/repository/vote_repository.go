package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"postboard/internal/model"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Exists(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check vote exists failed: %w", err)
	}
	return count > 0, nil
}

// Create inserts a vote. A second vote for the same pair fails with ErrDuplicateKey.
func (r *VoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create vote failed: %w", err)
	}
	return nil
}

// Delete removes the vote for the pair and reports how many rows were removed.
func (r *VoteRepository) Delete(ctx context.Context, postID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.Vote{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete vote failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *VoteRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Vote{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count votes failed: %w", err)
	}
	return count, nil
}

func (r *VoteRepository) DeleteByPosts(ctx context.Context, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&model.Vote{}).Error; err != nil {
		return fmt.Errorf("delete votes by posts failed: %w", err)
	}
	return nil
}

func (r *VoteRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Vote{}).Error; err != nil {
		return fmt.Errorf("delete votes by user failed: %w", err)
	}
	return nil
}
