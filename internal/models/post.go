// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a discussion post in the Agora application.
// Author fields are denormalized from the verified identity at creation time.
type Post struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Tag          string    `gorm:"not null;index" json:"tag"`
	AuthorName   string    `gorm:"not null" json:"author_name"`
	AuthorEmail  string    `gorm:"not null;index" json:"author_email"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`

	// Votes holds the raw vote ledger rows; the derived fields below are
	// computed from them at read time and never persisted.
	Votes []Vote `gorm:"foreignKey:PostID" json:"-"`

	Upvoters   []string `gorm:"-" json:"upvoters"`
	Downvoters []string `gorm:"-" json:"downvoters"`
	// PopularityScore is not persisted; computed at query time
	PopularityScore int `gorm:"-" json:"popularity_score"`
	// CommentCount is not persisted; computed at query time
	CommentCount int `gorm:"->" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the post ID when the caller did not provide one.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostPage is the envelope returned by paginated post listings.
type PostPage struct {
	Posts       []*Post `json:"posts"`
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	TotalCount  int64   `json:"total_count"`
}
