package repository

import (
	"context"
	"errors"
	"testing"

	"postboard/internal/model"
	"postboard/internal/platform/database/databasetest"
)

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore(databasetest.New(t))
	seedUser(t, store, "dup@example.com")

	err := store.Users.Create(ctx, &model.User{Email: "dup@example.com", PasswordHash: "x"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("got %v, want ErrDuplicateKey", err)
	}
}

func TestUserRepository_GetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	store := NewStore(databasetest.New(t))

	user, err := store.Users.GetByID(ctx, 99)
	if err != nil || user != nil {
		t.Fatalf("GetByID: user=%v err=%v", user, err)
	}
	user, err = store.Users.GetByEmail(ctx, "nobody@example.com")
	if err != nil || user != nil {
		t.Fatalf("GetByEmail: user=%v err=%v", user, err)
	}
}

func TestUserRepository_ListByIDsAndUpdateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore(databasetest.New(t))
	a := seedUser(t, store, "a@example.com")
	b := seedUser(t, store, "b@example.com")

	byID, err := store.Users.ListByIDs(ctx, []uint{a.ID, b.ID, 999})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(byID) != 2 || byID[b.ID].Email != "b@example.com" {
		t.Fatalf("unexpected users: %+v", byID)
	}

	if err := store.Users.UpdateEmail(ctx, a.ID, "b@example.com"); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("UpdateEmail to taken address: got %v", err)
	}
	if err := store.Users.UpdateEmail(ctx, a.ID, "a2@example.com"); err != nil {
		t.Fatalf("UpdateEmail: %v", err)
	}
	got, err := store.Users.GetByEmail(ctx, "a2@example.com")
	if err != nil || got == nil || got.ID != a.ID {
		t.Fatalf("GetByEmail after update: %v %v", got, err)
	}
}
