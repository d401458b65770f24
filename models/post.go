package models

import "time"

// Post represents a user-authored entry. The author is an opaque identity
// supplied by the external auth system; this service never creates users.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"index;not null" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `gorm:"size:512" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes    []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
