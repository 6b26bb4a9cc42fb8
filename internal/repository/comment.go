// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"agora/internal/cache"
	"agora/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Append(ctx context.Context, postID uuid.UUID, commenter models.Identity, content string) (*models.Comment, int64, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Append inserts a comment and returns it together with the post's comment
// count taken immediately after the insert, so the count includes the new row.
// The parent post's title is captured here for denormalized display.
func (r *commentRepository) Append(ctx context.Context, postID uuid.UUID, commenter models.Identity, content string) (*models.Comment, int64, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id", "title").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, models.NewNotFoundError("Post", postID)
		}
		return nil, 0, models.NewPersistenceError(err)
	}

	comment := &models.Comment{
		PostID:          postID,
		PostTitle:       post.Title,
		Content:         content,
		CommenterName:   commenter.Name,
		CommenterEmail:  commenter.Email,
		CommenterAvatar: commenter.Picture,
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, 0, models.NewPersistenceError(err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return nil, 0, models.NewPersistenceError(err)
	}

	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostsList(ctx)

	return comment, count, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at desc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return comments, nil
}
