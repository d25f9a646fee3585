package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose password hash
	IsActive     bool      `json:"is_active"`

	// Relations
	Profile *UserProfile `bun:"rel:has-one,join:id=user_id" json:"profile,omitempty"`
}

type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles,alias:up"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      int       `bun:",nullzero" json:"user_id"`
	IsPublic    bool      `json:"is_public"`
	Bio         string    `json:"bio"`
	PicturePath *string   `json:"picture_path"`
}
