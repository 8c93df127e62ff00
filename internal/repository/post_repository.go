package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"postboard/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

// GetByID loads the bare post row without aggregation.
func (r *PostRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check post exists failed: %w", err)
	}
	return count > 0, nil
}

// List returns posts in id order with their vote counts. Posts without votes are
// included with a count of zero. An empty search matches every title; otherwise
// titles are matched case-insensitively by substring.
func (r *PostRepository) List(ctx context.Context, search string, limit, offset int) ([]model.PostWithVotes, error) {
	q := r.withVotes(ctx)
	if search != "" {
		q = q.Where("LOWER(posts.title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var rows []model.PostWithVotes
	if err := q.Order("posts.id ASC").Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	return rows, nil
}

// GetWithVotes loads one post with its vote count, or nil if it does not exist.
func (r *PostRepository) GetWithVotes(ctx context.Context, id uint) (*model.PostWithVotes, error) {
	var rows []model.PostWithVotes
	if err := r.withVotes(ctx).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get post with votes failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpdateColumns writes only the named columns of post.
func (r *PostRepository) UpdateColumns(ctx context.Context, post *model.Post, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(post).Select(columns).Updates(post).Error; err != nil {
		return fmt.Errorf("update post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Post{}, id).Error; err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list post ids by owner failed: %w", err)
	}
	return ids, nil
}

func (r *PostRepository) DeleteByOwner(ctx context.Context, ownerID uint) error {
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&model.Post{}).Error; err != nil {
		return fmt.Errorf("delete posts by owner failed: %w", err)
	}
	return nil
}

func (r *PostRepository) withVotes(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Select("posts.*, COUNT(votes.post_id) AS votes").
		Joins("LEFT JOIN votes ON votes.post_id = posts.id").
		Group("posts.id")
}
