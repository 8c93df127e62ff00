package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"postboard/internal/config"
	"postboard/internal/model"
	"postboard/internal/pkg/jwtutil"
	"postboard/internal/pkg/password"
	"postboard/internal/platform/database/databasetest"
	"postboard/internal/repository"
)

type services struct {
	store    *repository.Store
	tokens   *jwtutil.Manager
	auth     *AuthService
	users    *UserService
	posts    *PostService
	votes    *VoteService
	activity *ActivityService
}

func newServices(t *testing.T) *services {
	t.Helper()
	return newServicesOn(t, databasetest.New(t))
}

func newServicesOn(t *testing.T, db *gorm.DB) *services {
	t.Helper()
	store := repository.NewStore(db)
	tokens := jwtutil.NewManager("test-secret", 30*time.Minute)
	activity := NewActivityService(store.Activities, NewRepositoryPublisher(store.Activities), zerolog.Nop())

	return &services{
		store:    store,
		tokens:   tokens,
		auth:     NewAuthService(store.Users, password.NewHasher(bcrypt.MinCost), tokens, activity),
		users:    NewUserService(store, nil, zerolog.Nop()),
		posts:    NewPostService(store, config.PostsConfig{DefaultLimit: 10, MaxLimit: 20}, activity),
		votes:    NewVoteService(store, activity),
		activity: activity,
	}
}

func (s *services) register(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := s.auth.Register(context.Background(), RegisterInput{Email: email, Password: "password123"})
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return user
}

func (s *services) createPost(t *testing.T, ownerID uint, title string) *model.PostWithVotes {
	t.Helper()
	post, err := s.posts.Create(context.Background(), CreatePostInput{OwnerID: ownerID, Title: title, Content: "content"})
	if err != nil {
		t.Fatalf("Create post %s: %v", title, err)
	}
	return post
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
