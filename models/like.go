package models

import "time"

// Like marks one identity's endorsement of one post. The composite unique
// index is the source of truth for the at-most-once invariant: concurrent
// duplicate inserts race on the index, not on application code.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
