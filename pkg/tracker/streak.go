package tracker

import (
	"time"

	"github.com/shelfmark/shelfmark/pkg/models"
)

// Streaks walks the calendar days from windowStart to windowEnd inclusive and
// returns the current and longest runs of consecutive active days. A day is
// active when its page total is positive. Keys in dailyTotals must be
// normalized with models.DateOf.
//
// The current streak stays live through a one-day grace period: if the last
// active day is today or yesterday, the run still counts; any older and it
// reports 0.
func Streaks(dailyTotals map[time.Time]int, windowStart, windowEnd, today time.Time) (current, longest int) {
	start := models.DateOf(windowStart)
	end := models.DateOf(windowEnd)
	todayDate := models.DateOf(today)

	run := 0
	lastRun := 0
	var lastActive time.Time

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if dailyTotals[d] > 0 {
			run++
			lastRun = run
			lastActive = d
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	if lastActive.IsZero() {
		return 0, longest
	}

	graceCutoff := todayDate.AddDate(0, 0, -1)
	if lastActive.Before(graceCutoff) {
		return 0, longest
	}
	return lastRun, longest
}
