// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"agora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository is the boundary to the externally owned account records.
// The engagement subsystem only reads roles and maintains the post counter.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	RoleOf(ctx context.Context, email string) (string, error)
	IncrementPostCount(ctx context.Context, email string) error
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil for not found, not an error
		}
		return nil, models.NewPersistenceError(err)
	}
	return &user, nil
}

// Upsert creates the account record or refreshes its profile fields.
// Role and post counter are preserved on conflict.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "avatar", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}

// RoleOf returns the role for the given email, defaulting to "user" when the
// account record does not exist.
func (r *userRepository) RoleOf(ctx context.Context, email string) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("role").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RoleUser, nil
		}
		return "", models.NewPersistenceError(err)
	}
	return user.Role, nil
}

// IncrementPostCount bumps the author's post counter in a single UPDATE.
// A missing account row makes this a no-op, not an error.
func (r *userRepository) IncrementPostCount(ctx context.Context, email string) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("post_count", gorm.Expr("post_count + 1")).Error
	if err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}
