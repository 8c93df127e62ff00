package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"postboard/internal/model"
)

// cachedUser mirrors model.User without the password hash, which never leaves the database.
type cachedUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// deletedMarker occupies a user's key after the account is deleted so a lookup
// that read the row before the delete cannot put it back.
const deletedMarker = "deleted"

type UserCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewUserCache(client *redisv9.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &UserCache{
		client: client,
		ttl:    ttl,
	}
}

// GetUser reports ok=true with a nil user when the account is known to be deleted.
func (c *UserCache) GetUser(ctx context.Context, id uint) (*model.User, bool, error) {
	raw, err := c.client.Get(ctx, c.userKey(id)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get user failed: %w", err)
	}
	if string(raw) == deletedMarker {
		return nil, true, nil
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached user failed: %w", err)
	}
	return &model.User{ID: cu.ID, Email: cu.Email, CreatedAt: cu.CreatedAt}, true, nil
}

// SetUser only fills an empty key, so it never replaces a deletion marker.
func (c *UserCache) SetUser(ctx context.Context, user *model.User) error {
	payload, err := json.Marshal(cachedUser{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
	if err != nil {
		return fmt.Errorf("marshal user cache failed: %w", err)
	}
	if err := c.client.SetNX(ctx, c.userKey(user.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set user failed: %w", err)
	}
	return nil
}

// MarkDeleted replaces the user's entry with a deletion marker that outlives any
// entry written by a lookup already in flight.
func (c *UserCache) MarkDeleted(ctx context.Context, id uint) error {
	if err := c.client.Set(ctx, c.userKey(id), deletedMarker, 2*c.ttl).Err(); err != nil {
		return fmt.Errorf("redis mark user deleted failed: %w", err)
	}
	return nil
}

func (c *UserCache) DeleteUser(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, c.userKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete user failed: %w", err)
	}
	return nil
}

func (c *UserCache) userKey(id uint) string {
	return fmt.Sprintf("postboard:user:%d", id)
}
