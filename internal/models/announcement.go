package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement is a moderator notice that users acknowledge individually.
// Acknowledgements live in the announcement_reads join table rather than a
// mutable set on the announcement row itself.
type Announcement struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	AuthorName   string    `gorm:"not null" json:"author_name"`
	AuthorEmail  string    `gorm:"not null;index" json:"author_email"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`

	Reads []AnnouncementRead `gorm:"foreignKey:AnnouncementID" json:"-"`
	// SeenBy is not persisted; derived from Reads at read time.
	SeenBy []string `gorm:"-" json:"seen_by"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the announcement ID when the caller did not provide one.
func (a *Announcement) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AnnouncementRead is one read receipt. The composite primary key makes
// mark-seen idempotent at the storage level.
type AnnouncementRead struct {
	AnnouncementID uuid.UUID `gorm:"type:uuid;primaryKey" json:"announcement_id"`
	UserEmail      string    `gorm:"primaryKey" json:"user_email"`
	CreatedAt      time.Time `json:"created_at"`
}
