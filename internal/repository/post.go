// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"agora/internal/cache"
	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/scoring"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetPage(ctx context.Context, page, pageSize int, sort, tag string) (*models.PostPage, error)
	ToggleVote(ctx context.Context, postID uuid.UUID, voterEmail, voteType string) (*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Votes").
		First(&post, "posts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewPersistenceError(err)
	}

	scoring.Derive(&post)
	return &post, nil
}

func (r *postRepository) GetPage(ctx context.Context, page, pageSize int, sort, tag string) (*models.PostPage, error) {
	span, ctx := observability.NewSpan(ctx, "repository.post.GetPage")
	defer span.End()
	span.AddAttributes(
		attribute.Int("page", page),
		attribute.String("sort", sort),
		attribute.String("tag", tag),
	)

	// totalCount deliberately counts every post regardless of the tag filter;
	// clients rely on it as the global post count.
	var totalCount int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&totalCount).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}

	base := r.applyPostDetails(r.db.WithContext(ctx)).Preload("Votes")
	if tag != "" {
		base = base.Where("posts.tag = ?", tag)
	}

	var posts []*models.Post
	err := r.applySort(base, sort).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}

	scoring.DeriveAll(posts)

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return &models.PostPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
	}, nil
}

// ToggleVote applies one vote toggle for voterEmail on postID.
//
// The ledger lives in the votes table with a composite (post_id, voter_email)
// primary key, so both branches below are single conditional statements:
//   - a DELETE removes an existing vote of the same type (toggle off);
//   - otherwise an INSERT ... ON CONFLICT DO UPDATE adds the vote or switches
//     its type in place.
//
// Neither branch reads ledger state first, so concurrent voters on the same
// post can never lose each other's updates; racing toggles by the same voter
// serialize to last-committed-wins.
func (r *postRepository) ToggleVote(ctx context.Context, postID uuid.UUID, voterEmail, voteType string) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "repository.post.ToggleVote")
	defer span.End()
	span.AddAttributes(
		attribute.String("post.id", postID.String()),
		attribute.String("vote.type", voteType),
	)

	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	if exists == 0 {
		return nil, models.NewNotFoundError("Post", postID)
	}

	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM votes WHERE post_id = ? AND voter_email = ? AND vote_type = ?`,
		postID, voterEmail, voteType,
	)
	if res.Error != nil {
		span.SetError(res.Error)
		return nil, models.NewPersistenceError(res.Error)
	}

	if res.RowsAffected == 0 {
		// No vote of this type yet: add it, or switch an opposite vote in place.
		err := r.db.WithContext(ctx).Exec(
			`INSERT INTO votes (post_id, voter_email, vote_type, created_at)
			 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (post_id, voter_email) DO UPDATE SET vote_type = EXCLUDED.vote_type`,
			postID, voterEmail, voteType,
		).Error
		if err != nil {
			span.SetError(err)
			return nil, models.NewPersistenceError(err)
		}
	}

	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostsList(ctx)

	return r.GetByID(ctx, postID)
}

// applyPostDetails adds a subquery to fetch the comment count in the same query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count")
}

// applySort appends the ORDER BY clause for the requested sort mode.
// The popularity expression mirrors scoring.Score: upvotes minus downvotes.
// It must be passed to Order as a plain string; gorm only recognizes
// strings and clause.OrderBy values there and drops anything else.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "popularity":
		return db.Order(
			"(SELECT COALESCE(SUM(CASE WHEN v.vote_type = 'upvote' THEN 1 ELSE -1 END), 0) FROM votes v WHERE v.post_id = posts.id) DESC",
		).Order("posts.created_at DESC")
	default: // "newest" and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}
