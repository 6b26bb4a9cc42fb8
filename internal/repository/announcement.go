// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"agora/internal/models"

	"gorm.io/gorm"
)

// AnnouncementRepository defines the interface for announcement read-tracking operations
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	ListAll(ctx context.Context) ([]*models.Announcement, error)
	UnseenCountFor(ctx context.Context, email string) (int64, error)
	MarkAllSeenFor(ctx context.Context, email string) error
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Create(announcement).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}

func (r *announcementRepository) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	err := r.db.WithContext(ctx).
		Preload("Reads").
		Order("created_at desc").
		Find(&announcements).Error
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}

	for _, a := range announcements {
		a.SeenBy = make([]string, 0, len(a.Reads))
		for _, read := range a.Reads {
			a.SeenBy = append(a.SeenBy, read.UserEmail)
		}
	}
	return announcements, nil
}

func (r *announcementRepository) UnseenCountFor(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM announcements a
		 WHERE NOT EXISTS (
			SELECT 1 FROM announcement_reads r
			WHERE r.announcement_id = a.id AND r.user_email = ?
		 )`,
		email,
	).Scan(&count).Error
	if err != nil {
		return 0, models.NewPersistenceError(err)
	}
	return count, nil
}

// MarkAllSeenFor inserts a read receipt for every announcement the caller has
// not acknowledged yet. One conditional statement; re-running it is a no-op.
func (r *announcementRepository) MarkAllSeenFor(ctx context.Context, email string) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO announcement_reads (announcement_id, user_email, created_at)
		 SELECT id, ?, CURRENT_TIMESTAMP FROM announcements WHERE true
		 ON CONFLICT (announcement_id, user_email) DO NOTHING`,
		email,
	).Error
	if err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}
