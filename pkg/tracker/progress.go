// Package tracker implements the derived-metric calculations behind the
// reading tracker: book progress and status classification, goal progress
// over a date-bounded period, and activity streaks. Everything here is pure;
// callers fetch the rows and persist the results.
package tracker

import (
	"math"

	"github.com/shelfmark/shelfmark/pkg/models"
)

// Percentage returns numerator/denominator as a percentage, rounded to one
// decimal place and capped to [0, 100]. A non-positive denominator yields 0
// rather than an error; zero targets are a configuration state, not a fault.
func Percentage(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	pct := float64(numerator) / float64(denominator) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return math.Round(pct*10) / 10
}

// ClassifyStatus derives a book's reading status from its progress
// percentage. Abandoned books are never reclassified; marking a book
// abandoned is an explicit user decision that session totals don't override.
func ClassifyStatus(progress float64, current models.ReadingStatus) models.ReadingStatus {
	if current == models.StatusAbandoned {
		return models.StatusAbandoned
	}
	switch {
	case progress >= 100:
		return models.StatusCompleted
	case progress > 0:
		return models.StatusCurrentlyReading
	default:
		return models.StatusToBeRead
	}
}

// RecomputeBook sums pages read across the book's sessions, updates
// book.Status in place, and returns the progress percentage along with
// whether this recomputation moved the book into completed for the first
// time. Overlapping session time ranges are summed as-is; deduplication is
// deliberately not attempted. The caller persists the status change.
func RecomputeBook(book *models.Book, sessions []*models.ReadingSession) (float64, bool) {
	totalPages := 0
	for _, s := range sessions {
		totalPages += s.PagesRead
	}

	progress := Percentage(totalPages, book.TotalPages)

	wasCompleted := book.Status == models.StatusCompleted
	book.Status = ClassifyStatus(progress, book.Status)
	newlyCompleted := !wasCompleted && book.Status == models.StatusCompleted

	return progress, newlyCompleted
}
