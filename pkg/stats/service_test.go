package stats

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shelfmark/shelfmark/pkg/goals"
	"github.com/shelfmark/shelfmark/pkg/migrations"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(ctx context.Context, t *testing.T, db *bun.DB, username string) int {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	return user.ID
}

func createTestBook(ctx context.Context, t *testing.T, db *bun.DB, userID int, genre string, status models.ReadingStatus) *models.Book {
	t.Helper()

	book := &models.Book{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      "A Book",
		Author:     "An Author",
		TotalPages: 100,
		Genre:      genre,
		Status:     status,
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	return book
}

func createTestSession(ctx context.Context, t *testing.T, db *bun.DB, userID int, bookID string, pages int, startedAt time.Time) {
	t.Helper()

	session := &models.ReadingSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		BookID:    bookID,
		PagesRead: pages,
		StartedAt: startedAt,
		EndedAt:   startedAt.Add(time.Hour),
	}
	_, err := db.NewInsert().Model(session).Exec(ctx)
	require.NoError(t, err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestServiceDashboard(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, 30)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	today := date(2026, 2, 15)

	completed := createTestBook(ctx, t, db, userID, "FIC_SFF", models.StatusCompleted)
	reading := createTestBook(ctx, t, db, userID, "NON_HIS", models.StatusCurrentlyReading)
	createTestBook(ctx, t, db, userID, "FIC_LIT", models.StatusToBeRead)

	// Inside the 30-day window.
	createTestSession(ctx, t, db, userID, completed.ID, 100, date(2026, 2, 1))
	createTestSession(ctx, t, db, userID, reading.ID, 40, date(2026, 2, 10))
	// Outside the window.
	createTestSession(ctx, t, db, userID, completed.ID, 75, date(2025, 12, 1))

	goal := &models.ReadingGoal{
		UserID:      userID,
		GoalType:    models.GoalMonthly,
		TargetPages: 280,
		StartDate:   date(2026, 2, 1),
		EndDate:     date(2026, 2, 28),
	}
	require.NoError(t, goals.NewService(db).CreateGoal(ctx, goal))

	stats, err := svc.Dashboard(ctx, userID, today)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalBooks)
	assert.Equal(t, 1, stats.BooksCompleted)
	require.Len(t, stats.CurrentlyReading, 1)
	assert.Equal(t, reading.ID, stats.CurrentlyReading[0].ID)
	assert.Equal(t, 140, stats.PagesLastWindow)
	assert.Equal(t, 30, stats.WindowDays)

	require.NotNil(t, stats.ActiveGoal)
	assert.Equal(t, goal.ID, stats.ActiveGoal.ID)
	require.NotNil(t, stats.GoalProgress)
	assert.Equal(t, 140, stats.GoalProgress.PagesRead)
	assert.InDelta(t, 50.0, stats.GoalProgress.PagesProgressPct, 0.01)
}

func TestServiceDailyPages_FillsGaps(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, 30)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	today := date(2026, 2, 7)

	book := createTestBook(ctx, t, db, userID, "FIC_SFF", models.StatusCurrentlyReading)
	createTestSession(ctx, t, db, userID, book.ID, 20, date(2026, 2, 5))
	createTestSession(ctx, t, db, userID, book.ID, 10, date(2026, 2, 5).Add(8*time.Hour))
	createTestSession(ctx, t, db, userID, book.ID, 15, date(2026, 2, 7))

	series, err := svc.DailyPages(ctx, userID, 7, today)
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, "2026-02-01", series[0].Date)
	assert.Equal(t, "2026-02-07", series[6].Date)

	byDate := map[string]int{}
	for _, day := range series {
		byDate[day.Date] = day.Pages
	}
	assert.Equal(t, 30, byDate["2026-02-05"])
	assert.Equal(t, 0, byDate["2026-02-06"])
	assert.Equal(t, 15, byDate["2026-02-07"])
}

func TestServiceGenreDistribution(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, 30)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")

	createTestBook(ctx, t, db, userID, "FIC_SFF", models.StatusCompleted)
	createTestBook(ctx, t, db, userID, "FIC_SFF", models.StatusToBeRead)
	createTestBook(ctx, t, db, userID, "NON_HIS", models.StatusCurrentlyReading)

	counts, err := svc.GenreDistribution(ctx, userID)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, "FIC_SFF", counts[0].Genre)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, "Science Fiction/Fantasy", counts[0].DisplayName)
	assert.Equal(t, "NON_HIS", counts[1].Genre)
	assert.Equal(t, 1, counts[1].Count)
}

func TestServiceStatusDistribution_IncludesZeroes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, 30)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")

	createTestBook(ctx, t, db, userID, "FIC_SFF", models.StatusCompleted)

	counts, err := svc.StatusDistribution(ctx, userID)
	require.NoError(t, err)
	require.Len(t, counts, 4)

	byStatus := map[models.ReadingStatus]int{}
	for _, count := range counts {
		byStatus[count.Status] = count.Count
	}
	assert.Equal(t, 1, byStatus[models.StatusCompleted])
	assert.Equal(t, 0, byStatus[models.StatusToBeRead])
	assert.Equal(t, 0, byStatus[models.StatusCurrentlyReading])
	assert.Equal(t, 0, byStatus[models.StatusAbandoned])
}

func TestServiceStreaks(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, 30)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	today := date(2026, 3, 10)

	book := createTestBook(ctx, t, db, userID, "FIC_SFF", models.StatusCurrentlyReading)

	// Three-day run with a gap, then active through yesterday.
	createTestSession(ctx, t, db, userID, book.ID, 10, date(2026, 3, 3))
	createTestSession(ctx, t, db, userID, book.ID, 10, date(2026, 3, 4))
	createTestSession(ctx, t, db, userID, book.ID, 10, date(2026, 3, 5))
	createTestSession(ctx, t, db, userID, book.ID, 10, date(2026, 3, 8))
	createTestSession(ctx, t, db, userID, book.ID, 10, date(2026, 3, 9))

	streaks, err := svc.Streaks(ctx, userID, 30, today)
	require.NoError(t, err)

	assert.Equal(t, 2, streaks.CurrentStreak)
	assert.Equal(t, 3, streaks.LongestStreak)
	assert.Equal(t, 30, streaks.WindowDays)
}
