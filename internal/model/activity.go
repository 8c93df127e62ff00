package model

import "time"

const (
	ActivityUserRegistered = "user.registered"
	ActivityPostCreated    = "post.created"
	ActivityPostUpdated    = "post.updated"
	ActivityPostDeleted    = "post.deleted"
	ActivityVoteAdded      = "vote.added"
	ActivityVoteRemoved    = "vote.removed"
)

type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	PostID    *uint     `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
