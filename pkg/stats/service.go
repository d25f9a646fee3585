package stats

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/genres"
	"github.com/shelfmark/shelfmark/pkg/goals"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/tracker"
	"github.com/uptrace/bun"
)

// DashboardStats is the aggregate payload behind the dashboard page.
type DashboardStats struct {
	TotalBooks       int                   `json:"total_books"`
	BooksCompleted   int                   `json:"books_completed"`
	CurrentlyReading []*models.Book        `json:"currently_reading"`
	PagesLastWindow  int                   `json:"pages_last_window"`
	WindowDays       int                   `json:"window_days"`
	ActiveGoal       *models.ReadingGoal   `json:"active_goal,omitempty"`
	GoalProgress     *tracker.GoalProgress `json:"goal_progress,omitempty"`
}

// DailyPages is one day's pages in the reading-activity series.
type DailyPages struct {
	Date  string `json:"date"`
	Pages int    `json:"pages"`
}

// GenreCount is one slice of the genre distribution.
type GenreCount struct {
	Genre       string `json:"genre"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status models.ReadingStatus `json:"status"`
	Count  int                  `json:"count"`
}

// StreakStats is the current and longest streak over a window.
type StreakStats struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	WindowDays    int `json:"window_days"`
}

type Service struct {
	db          *bun.DB
	goalService *goals.Service
	windowDays  int
}

// NewService creates a stats service. windowDays is the default reporting
// window for page totals and streaks.
func NewService(db *bun.DB, windowDays int) *Service {
	return &Service{
		db:          db,
		goalService: goals.NewService(db),
		windowDays:  windowDays,
	}
}

// WindowDays returns the configured default window.
func (svc *Service) WindowDays() int {
	return svc.windowDays
}

// Dashboard builds the dashboard summary for the user.
func (svc *Service) Dashboard(ctx context.Context, userID int, today time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{
		CurrentlyReading: []*models.Book{},
		WindowDays:       svc.windowDays,
	}

	total, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("b.user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	stats.TotalBooks = total

	completed, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("b.user_id = ?", userID).
		Where("b.status = ?", models.StatusCompleted).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	stats.BooksCompleted = completed

	err = svc.db.NewSelect().
		Model(&stats.CurrentlyReading).
		Relation("Sessions").
		Where("b.user_id = ?", userID).
		Where("b.status = ?", models.StatusCurrentlyReading).
		Order("b.updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	windowStart := models.DateOf(today).AddDate(0, 0, -(svc.windowDays - 1))
	var pages int
	err = svc.db.NewSelect().
		Model((*models.ReadingSession)(nil)).
		ColumnExpr("COALESCE(SUM(pages_read), 0)").
		Where("rs.user_id = ?", userID).
		Where("rs.started_at >= ?", windowStart).
		Scan(ctx, &pages)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	stats.PagesLastWindow = pages

	// Most recently created goal that covers today, if any.
	one := 1
	activeGoals, err := svc.goalService.ListGoals(ctx, goals.ListGoalsOptions{
		Limit:    &one,
		UserID:   &userID,
		ActiveOn: &today,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(activeGoals) > 0 {
		stats.ActiveGoal = activeGoals[0]
		progress, err := svc.goalService.Progress(ctx, stats.ActiveGoal, today)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		stats.GoalProgress = progress
	}

	return stats, nil
}

// DailyPages returns a contiguous per-day pages series ending today. Days
// without sessions report zero so the chart has no holes.
func (svc *Service) DailyPages(ctx context.Context, userID, days int, today time.Time) ([]DailyPages, error) {
	end := models.DateOf(today)
	start := end.AddDate(0, 0, -(days - 1))

	totals, err := svc.dailyTotals(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	series := make([]DailyPages, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		series = append(series, DailyPages{
			Date:  d.Format("2006-01-02"),
			Pages: totals[d],
		})
	}

	return series, nil
}

// GenreDistribution counts the user's books per genre code.
func (svc *Service) GenreDistribution(ctx context.Context, userID int) ([]GenreCount, error) {
	var rows []struct {
		Genre string `bun:"genre"`
		Count int    `bun:"count"`
	}

	err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Column("genre").
		ColumnExpr("COUNT(*) AS count").
		Where("b.user_id = ?", userID).
		Group("genre").
		Order("count DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make([]GenreCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, GenreCount{
			Genre:       row.Genre,
			DisplayName: genres.DisplayName(row.Genre),
			Count:       row.Count,
		})
	}

	return counts, nil
}

// StatusDistribution counts the user's books per status, including zeroes.
func (svc *Service) StatusDistribution(ctx context.Context, userID int) ([]StatusCount, error) {
	var rows []struct {
		Status models.ReadingStatus `bun:"status"`
		Count  int                  `bun:"count"`
	}

	err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Where("b.user_id = ?", userID).
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	byStatus := map[models.ReadingStatus]int{}
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}

	counts := make([]StatusCount, 0, len(models.ReadingStatuses))
	for _, status := range models.ReadingStatuses {
		counts = append(counts, StatusCount{Status: status, Count: byStatus[status]})
	}

	return counts, nil
}

// Streaks derives the current and longest reading streaks over the window.
func (svc *Service) Streaks(ctx context.Context, userID, days int, today time.Time) (*StreakStats, error) {
	end := models.DateOf(today)
	start := end.AddDate(0, 0, -(days - 1))

	totals, err := svc.dailyTotals(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	current, longest := tracker.Streaks(totals, start, end, today)

	return &StreakStats{
		CurrentStreak: current,
		LongestStreak: longest,
		WindowDays:    days,
	}, nil
}

// dailyTotals aggregates pages per calendar day over [start, end] inclusive.
func (svc *Service) dailyTotals(ctx context.Context, userID int, start, end time.Time) (map[time.Time]int, error) {
	sessions := []*models.ReadingSession{}
	err := svc.db.NewSelect().
		Model(&sessions).
		Column("rs.pages_read", "rs.started_at").
		Where("rs.user_id = ?", userID).
		Where("rs.started_at >= ?", start).
		Where("rs.started_at < ?", end.AddDate(0, 0, 1)).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	totals := map[time.Time]int{}
	for _, session := range sessions {
		totals[models.DateOf(session.StartedAt)] += session.PagesRead
	}

	return totals, nil
}
