package app

import (
	"context"
	"strings"

	"postboard/internal/config"
	"postboard/internal/model"
	"postboard/internal/repository"
)

type PostService struct {
	store    *repository.Store
	limits   config.PostsConfig
	activity *ActivityService
}

type ListPostsInput struct {
	Search string
	Limit  int
	Skip   int
}

type CreatePostInput struct {
	OwnerID   uint
	Title     string
	Content   string
	Published *bool
}

// PostPatch is a partial post update. Only non-nil fields are applied; the owner
// is not part of it and never changes.
type PostPatch struct {
	Title     *string
	Content   *string
	Published *bool
}

// apply copies the present fields onto post and returns the changed column names.
func (p PostPatch) apply(post *model.Post) ([]string, error) {
	var columns []string
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		post.Title = title
		columns = append(columns, "title")
	}
	if p.Content != nil {
		post.Content = *p.Content
		columns = append(columns, "content")
	}
	if p.Published != nil {
		post.Published = *p.Published
		columns = append(columns, "published")
	}
	return columns, nil
}

func NewPostService(store *repository.Store, limits config.PostsConfig, activity *ActivityService) *PostService {
	return &PostService{
		store:    store,
		limits:   limits,
		activity: activity,
	}
}

func (s *PostService) List(ctx context.Context, input ListPostsInput) ([]model.PostWithVotes, error) {
	if input.Limit < 0 || input.Skip < 0 {
		return nil, ErrInvalidInput
	}
	limit := input.Limit
	if limit == 0 {
		limit = s.limits.DefaultLimit
	}
	if limit > s.limits.MaxLimit {
		limit = s.limits.MaxLimit
	}

	rows, err := s.store.Posts.List(ctx, input.Search, limit, input.Skip)
	if err != nil {
		return nil, err
	}
	if err := attachOwners(ctx, s.store, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*model.PostWithVotes, error) {
	return getWithOwner(ctx, s.store, id)
}

func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*model.PostWithVotes, error) {
	title := strings.TrimSpace(input.Title)
	if input.OwnerID == 0 || title == "" {
		return nil, ErrInvalidInput
	}
	published := true
	if input.Published != nil {
		published = *input.Published
	}

	post := &model.Post{
		Title:     title,
		Content:   input.Content,
		Published: published,
		OwnerID:   input.OwnerID,
	}
	var created *model.PostWithVotes
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		row, err := getWithOwner(ctx, tx, post.ID)
		created = row
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, input.OwnerID, model.ActivityPostCreated, &post.ID)
	return created, nil
}

func (s *PostService) Update(ctx context.Context, requesterID, id uint, patch PostPatch) (*model.PostWithVotes, error) {
	var updated *model.PostWithVotes
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		post, err := ownedPost(ctx, tx, requesterID, id)
		if err != nil {
			return err
		}
		columns, err := patch.apply(post)
		if err != nil {
			return err
		}
		if err := tx.Posts.UpdateColumns(ctx, post, columns); err != nil {
			return err
		}
		row, err := getWithOwner(ctx, tx, id)
		updated = row
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, requesterID, model.ActivityPostUpdated, &id)
	return updated, nil
}

// Delete removes the post and every vote cast on it.
func (s *PostService) Delete(ctx context.Context, requesterID, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := ownedPost(ctx, tx, requesterID, id); err != nil {
			return err
		}
		if err := tx.Votes.DeleteByPosts(ctx, []uint{id}); err != nil {
			return err
		}
		return tx.Posts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, requesterID, model.ActivityPostDeleted, &id)
	return nil
}

// ownedPost loads the post and checks that requesterID owns it.
func ownedPost(ctx context.Context, store *repository.Store, requesterID, id uint) (*model.Post, error) {
	post, err := store.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.OwnerID != requesterID {
		return nil, ErrForbidden
	}
	return post, nil
}

func getWithOwner(ctx context.Context, store *repository.Store, id uint) (*model.PostWithVotes, error) {
	row, err := store.Posts.GetWithVotes(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrPostNotFound
	}
	rows := []model.PostWithVotes{*row}
	if err := attachOwners(ctx, store, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// attachOwners fetches the owners of rows in one query and sets each row's Owner.
func attachOwners(ctx context.Context, store *repository.Store, rows []model.PostWithVotes) error {
	if len(rows) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.OwnerID]; ok {
			continue
		}
		seen[row.OwnerID] = struct{}{}
		ids = append(ids, row.OwnerID)
	}

	owners, err := store.Users.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range rows {
		if owner, ok := owners[rows[i].OwnerID]; ok {
			o := owner
			rows[i].Owner = &o
		}
	}
	return nil
}
