package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GoalType is the cadence of a reading goal.
type GoalType string

const (
	GoalDaily   GoalType = "daily"
	GoalWeekly  GoalType = "weekly"
	GoalMonthly GoalType = "monthly"
	GoalYearly  GoalType = "yearly"
)

// GoalPeriodMaxDays bounds the inclusive length of a goal's date range by its
// type. A daily goal must span exactly one day; the others are upper bounds.
var GoalPeriodMaxDays = map[GoalType]int{
	GoalDaily:   1,
	GoalWeekly:  7,
	GoalMonthly: 31,
	GoalYearly:  366,
}

func (g GoalType) IsValid() bool {
	_, ok := GoalPeriodMaxDays[g]
	return ok
}

type ReadingGoal struct {
	bun.BaseModel `bun:"table:reading_goals,alias:rg"`

	ID          string    `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      int       `bun:",nullzero" json:"user_id"`
	GoalType    GoalType  `bun:",nullzero" json:"goal_type"`
	TargetPages int       `json:"target_pages"`
	TargetBooks int       `json:"target_books"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// PeriodDays returns the goal's inclusive length in calendar days.
func (g *ReadingGoal) PeriodDays() int {
	start := DateOf(g.StartDate)
	end := DateOf(g.EndDate)
	return int(end.Sub(start).Hours()/24) + 1
}

// IsActive reports whether today falls within the goal's date range, inclusive
// on both ends.
func (g *ReadingGoal) IsActive(today time.Time) bool {
	d := DateOf(today)
	return !d.Before(DateOf(g.StartDate)) && !d.After(DateOf(g.EndDate))
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
