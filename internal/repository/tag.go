package repository

import (
	"context"

	"agora/internal/models"

	"gorm.io/gorm"
)

// TagRepository exposes the static topic catalog.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return tags, nil
}
