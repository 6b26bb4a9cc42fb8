// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a post in the Agora application.
// PostTitle is captured at comment time for denormalized display.
type Comment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID          uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	PostTitle       string    `gorm:"not null" json:"post_title"`
	Content         string    `gorm:"type:text;not null" json:"comment"`
	CommenterName   string    `gorm:"not null" json:"commenter_name"`
	CommenterEmail  string    `gorm:"not null;index" json:"commenter_email"`
	CommenterAvatar string    `json:"commenter_avatar,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// BeforeCreate assigns the comment ID when the caller did not provide one.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
