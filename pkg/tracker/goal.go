package tracker

import (
	"math"
	"time"

	"github.com/shelfmark/shelfmark/pkg/models"
)

// GoalProgress is the full set of derived values for one reading goal.
type GoalProgress struct {
	PagesRead         int     `json:"pages_read"`
	PagesRemaining    int     `json:"pages_remaining"`
	PagesNeededPerDay int     `json:"pages_needed_per_day"`
	BooksCompleted    int     `json:"books_completed"`
	BooksRemaining    int     `json:"books_remaining"`
	PagesProgressPct  float64 `json:"pages_progress_pct"`
	BooksProgressPct  float64 `json:"books_progress_pct"`
	DaysRemaining     int     `json:"days_remaining"`
}

// ComputeGoalProgress derives goal progress from pre-aggregated window
// totals: pagesRead is the sum of pages over sessions whose start date falls
// within the goal's period, and booksCompleted is the count of distinct
// completed books with at least one session dated inside it.
//
// DaysRemaining may be negative once the goal has expired; the per-day pace
// is only computed while days remain. A zero TargetBooks means book tracking
// is off and all book fields stay zero.
func ComputeGoalProgress(goal *models.ReadingGoal, pagesRead, booksCompleted int, today time.Time) GoalProgress {
	p := GoalProgress{
		PagesRead:        pagesRead,
		PagesProgressPct: Percentage(pagesRead, goal.TargetPages),
	}

	p.PagesRemaining = goal.TargetPages - pagesRead
	if p.PagesRemaining < 0 {
		p.PagesRemaining = 0
	}

	endDate := models.DateOf(goal.EndDate)
	todayDate := models.DateOf(today)
	p.DaysRemaining = int(endDate.Sub(todayDate).Hours() / 24)

	if p.DaysRemaining > 0 {
		p.PagesNeededPerDay = int(math.Ceil(float64(p.PagesRemaining) / float64(p.DaysRemaining)))
	}

	if goal.TargetBooks > 0 {
		p.BooksCompleted = booksCompleted
		p.BooksRemaining = goal.TargetBooks - booksCompleted
		if p.BooksRemaining < 0 {
			p.BooksRemaining = 0
		}
		p.BooksProgressPct = Percentage(booksCompleted, goal.TargetBooks)
	}

	return p
}
