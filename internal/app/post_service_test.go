package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestPostService_CreateDefaultsAndOwner(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	owner := s.register(t, "owner@x.com")

	post := s.createPost(t, owner.ID, "  Hello  ")
	if post.Title != "Hello" || !post.Published || post.Votes != 0 {
		t.Errorf("unexpected post: %+v", post)
	}
	if post.Owner == nil || post.Owner.ID != owner.ID || post.Owner.Email != "owner@x.com" {
		t.Errorf("owner not attached: %+v", post.Owner)
	}

	draft, err := s.posts.Create(ctx, CreatePostInput{OwnerID: owner.ID, Title: "Draft", Published: boolPtr(false)})
	if err != nil {
		t.Fatalf("Create draft: %v", err)
	}
	got, err := s.posts.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Published {
		t.Error("published=false was not stored")
	}

	if _, err := s.posts.Create(ctx, CreatePostInput{OwnerID: owner.ID, Title: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank title: got %v", err)
	}
}

func TestPostService_UpdateByNonOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	owner := s.register(t, "owner@x.com")
	other := s.register(t, "other@x.com")
	post := s.createPost(t, owner.ID, "Original")

	_, err := s.posts.Update(ctx, other.ID, post.ID, PostPatch{Title: strPtr("Hijacked")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}

	got, err := s.posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Original" || got.OwnerID != owner.ID {
		t.Fatalf("post changed: %+v", got.Post)
	}

	if _, err := s.posts.Update(ctx, owner.ID, 999, PostPatch{}); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("missing post: got %v", err)
	}
}

func TestPostService_UpdateAppliesOnlyPresentFields(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	owner := s.register(t, "owner@x.com")
	post := s.createPost(t, owner.ID, "Title")

	updated, err := s.posts.Update(ctx, owner.ID, post.ID, PostPatch{Published: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Published || updated.Title != "Title" || updated.Content != "content" {
		t.Fatalf("unexpected post: %+v", updated.Post)
	}

	updated, err = s.posts.Update(ctx, owner.ID, post.ID, PostPatch{Content: strPtr("new body")})
	if err != nil {
		t.Fatalf("Update content: %v", err)
	}
	if updated.Content != "new body" || updated.Published || updated.Owner == nil {
		t.Fatalf("unexpected post: %+v", updated)
	}

	if _, err := s.posts.Update(ctx, owner.ID, post.ID, PostPatch{Title: strPtr("")}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty title: got %v", err)
	}
}

func TestPostService_DeleteRemovesVotes(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	owner := s.register(t, "owner@x.com")
	voter := s.register(t, "voter@x.com")
	post := s.createPost(t, owner.ID, "Doomed")

	if _, err := s.votes.Cast(ctx, VoteInput{PostID: post.ID, UserID: voter.ID, Dir: 1}); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if err := s.posts.Delete(ctx, voter.ID, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner delete: got %v", err)
	}
	if err := s.posts.Delete(ctx, owner.ID, post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.posts.Get(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("Get after delete: got %v", err)
	}
	if got := voteCount(t, s, post.ID); got != 0 {
		t.Fatalf("votes left behind: %d", got)
	}
	if err := s.posts.Delete(ctx, owner.ID, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestPostService_ListLimits(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	owner := s.register(t, "owner@x.com")
	for i := 0; i < 25; i++ {
		s.createPost(t, owner.ID, fmt.Sprintf("Post %02d", i))
	}

	rows, err := s.posts.List(ctx, ListPostsInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 10 {
		t.Errorf("default limit: got %d", len(rows))
	}
	for _, row := range rows {
		if row.Votes != 0 || row.Owner == nil {
			t.Fatalf("unexpected row: %+v", row)
		}
	}

	rows, err = s.posts.List(ctx, ListPostsInput{Limit: 500})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 20 {
		t.Errorf("max limit: got %d", len(rows))
	}

	rows, err = s.posts.List(ctx, ListPostsInput{Limit: 10, Skip: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 5 || rows[0].Title != "Post 20" {
		t.Errorf("skip: got %d rows", len(rows))
	}

	if _, err := s.posts.List(ctx, ListPostsInput{Limit: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative limit: got %v", err)
	}
	if _, err := s.posts.List(ctx, ListPostsInput{Skip: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative skip: got %v", err)
	}
}
