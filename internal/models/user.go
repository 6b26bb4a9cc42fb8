// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles recognized by the authorization check.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User mirrors the account record owned by the external identity provider.
// The application only reads the role and maintains the post counter.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `gorm:"not null;default:user" json:"role"`
	PostCount int       `gorm:"not null;default:0" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the verified caller identity extracted from a bearer token.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}
