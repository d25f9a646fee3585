package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ReadingStatus is the lifecycle state of a book on a user's shelf.
type ReadingStatus string

const (
	StatusToBeRead         ReadingStatus = "to_be_read"
	StatusCurrentlyReading ReadingStatus = "currently_reading"
	StatusCompleted        ReadingStatus = "completed"
	StatusAbandoned        ReadingStatus = "abandoned"
)

// ReadingStatuses lists every valid status, in shelf order.
var ReadingStatuses = []ReadingStatus{
	StatusToBeRead,
	StatusCurrentlyReading,
	StatusCompleted,
	StatusAbandoned,
}

func (s ReadingStatus) IsValid() bool {
	switch s {
	case StatusToBeRead, StatusCurrentlyReading, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID             string        `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	UserID         int           `bun:",nullzero" json:"user_id"`
	Title          string        `bun:",nullzero" json:"title"`
	Author         string        `bun:",nullzero" json:"author"`
	ISBN           *string       `json:"isbn,omitempty"`
	TotalPages     int           `json:"total_pages"`
	Genre          string        `bun:",nullzero" json:"genre"`
	Status         ReadingStatus `bun:",nullzero" json:"status"`
	CoverImagePath *string       `json:"cover_image_path"`

	// Relations
	Sessions []*ReadingSession `bun:"rel:has-many,join:id=book_id" json:"sessions,omitempty"`
}
