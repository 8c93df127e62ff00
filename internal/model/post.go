package model

import "time"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Published bool      `gorm:"not null" json:"published"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostWithVotes is a post row together with its aggregated vote count.
type PostWithVotes struct {
	Post  `gorm:"embedded"`
	Votes int64 `json:"votes"`
	Owner *User `gorm:"-" json:"owner"`
}
