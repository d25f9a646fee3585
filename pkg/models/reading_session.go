package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MaxSessionDuration is the longest a single reading session may span.
// Sessions exceeding it are rejected at creation, not clamped.
const MaxSessionDuration = 24 * time.Hour

type ReadingSession struct {
	bun.BaseModel `bun:"table:reading_sessions,alias:rs"`

	ID        string    `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int       `bun:",nullzero" json:"user_id"`
	BookID    string    `bun:",nullzero" json:"book_id"`
	PagesRead int       `json:"pages_read"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Notes     string    `json:"notes"`

	// Relations
	Book *Book `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
}

// Duration returns how long the session lasted.
func (s *ReadingSession) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}
