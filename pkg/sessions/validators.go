package sessions

import "time"

type ListSessionsQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type CreateSessionPayload struct {
	PagesRead int       `json:"pages_read" validate:"required,gt=0"`
	StartedAt time.Time `json:"started_at" validate:"required"`
	EndedAt   time.Time `json:"ended_at" validate:"required,gtfield=StartedAt"`
	Notes     string    `json:"notes" mod:"trim" validate:"max=2000"`
}

type UpdateSessionPayload struct {
	PagesRead *int       `json:"pages_read,omitempty" validate:"omitempty,gt=0"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Notes     *string    `json:"notes,omitempty" mod:"trim" validate:"omitempty,max=2000"`
}
