package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func totals(days map[int]int, y int, m time.Month) map[time.Time]int {
	out := make(map[time.Time]int, len(days))
	for d, pages := range days {
		out[date(y, m, d)] = pages
	}
	return out
}

func TestStreaks_GapResetsRun(t *testing.T) {
	t.Parallel()

	// Active 1st-3rd, inactive 4th, active 5th.
	daily := totals(map[int]int{1: 10, 2: 5, 3: 20, 5: 8}, 2024, time.January)

	current, longest := Streaks(daily, date(2024, 1, 1), date(2024, 1, 5), date(2024, 1, 5))
	assert.Equal(t, 1, current)
	assert.Equal(t, 3, longest)
}

func TestStreaks_GracePeriod(t *testing.T) {
	t.Parallel()

	// Last active day is yesterday; today has no pages logged yet.
	daily := totals(map[int]int{1: 10, 2: 5, 3: 20}, 2024, time.January)

	current, longest := Streaks(daily, date(2024, 1, 1), date(2024, 1, 4), date(2024, 1, 4))
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, longest)
}

func TestStreaks_StaleStreakIsZero(t *testing.T) {
	t.Parallel()

	// Last active day is two days before today; the streak is dead.
	daily := totals(map[int]int{1: 10, 2: 5, 3: 20}, 2024, time.January)

	current, longest := Streaks(daily, date(2024, 1, 1), date(2024, 1, 5), date(2024, 1, 5))
	assert.Equal(t, 0, current)
	assert.Equal(t, 3, longest)
}

func TestStreaks_EmptyWindow(t *testing.T) {
	t.Parallel()

	current, longest := Streaks(map[time.Time]int{}, date(2024, 1, 1), date(2024, 1, 31), date(2024, 1, 31))
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, longest)
}

func TestStreaks_FullyActiveWindow(t *testing.T) {
	t.Parallel()

	daily := totals(map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, 2024, time.February)

	current, longest := Streaks(daily, date(2024, 2, 1), date(2024, 2, 5), date(2024, 2, 5))
	assert.Equal(t, 5, current)
	assert.Equal(t, 5, longest)
}

func TestStreaks_ZeroPageDaysAreInactive(t *testing.T) {
	t.Parallel()

	// A day present in the map with zero pages does not count as active.
	daily := totals(map[int]int{1: 10, 2: 0, 3: 10}, 2024, time.March)

	current, longest := Streaks(daily, date(2024, 3, 1), date(2024, 3, 3), date(2024, 3, 3))
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, longest)
}

func TestStreaks_LongestInMiddleOfWindow(t *testing.T) {
	t.Parallel()

	daily := totals(map[int]int{2: 1, 3: 1, 4: 1, 5: 1, 8: 1, 9: 1}, 2024, time.April)

	// Evaluated two days after the last active day: the streak is stale.
	current, longest := Streaks(daily, date(2024, 4, 1), date(2024, 4, 10), date(2024, 4, 11))
	assert.Equal(t, 0, current)
	assert.Equal(t, 4, longest)

	// Same window evaluated while the tail run is still live.
	current, longest = Streaks(daily, date(2024, 4, 1), date(2024, 4, 10), date(2024, 4, 9))
	assert.Equal(t, 2, current)
	assert.Equal(t, 4, longest)
}
