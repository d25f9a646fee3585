package sessions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/pkg/books"
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

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

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

func createTestBook(ctx context.Context, t *testing.T, db *bun.DB, userID, totalPages int) *models.Book {
	t.Helper()

	book := &models.Book{
		UserID:     userID,
		Title:      "Dune",
		Author:     "Frank Herbert",
		TotalPages: totalPages,
		Genre:      "FIC_SFF",
	}
	require.NoError(t, books.NewService(db).CreateBook(ctx, book))

	return book
}

func newSession(userID int, bookID string, pages int, start time.Time, duration time.Duration) *models.ReadingSession {
	return &models.ReadingSession{
		UserID:    userID,
		BookID:    bookID,
		PagesRead: pages,
		StartedAt: start,
		EndedAt:   start.Add(duration),
	}
}

func TestServiceCreateSession_Validation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	book := createTestBook(ctx, t, db, userID, 100)
	now := time.Now()

	t.Run("rejects non-positive pages", func(tt *testing.T) {
		_, err := svc.CreateSession(ctx, newSession(userID, book.ID, 0, now, time.Hour))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"pages_read" must be greater than 0`)
	})

	t.Run("rejects end before start", func(tt *testing.T) {
		_, err := svc.CreateSession(ctx, newSession(userID, book.ID, 10, now, -time.Hour))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"ended_at" must be after "started_at"`)
	})

	t.Run("rejects end equal to start", func(tt *testing.T) {
		_, err := svc.CreateSession(ctx, newSession(userID, book.ID, 10, now, 0))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"ended_at" must be after "started_at"`)
	})

	t.Run("rejects sessions over 24 hours", func(tt *testing.T) {
		_, err := svc.CreateSession(ctx, newSession(userID, book.ID, 10, now, 25*time.Hour))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "can't span more than 24 hours")
	})

	t.Run("accepts a session of exactly 24 hours", func(tt *testing.T) {
		_, err := svc.CreateSession(ctx, newSession(userID, book.ID, 10, now, 24*time.Hour))
		require.NoError(tt, err)
	})
}

func TestServiceCreateSession_TransitionsBookStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	bookService := books.NewService(db)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	book := createTestBook(ctx, t, db, userID, 100)
	now := time.Now()

	newlyCompleted, err := svc.CreateSession(ctx, newSession(userID, book.ID, 40, now.Add(-2*time.Hour), time.Hour))
	require.NoError(t, err)
	assert.False(t, newlyCompleted)

	reloaded, err := bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCurrentlyReading, reloaded.Status)

	newlyCompleted, err = svc.CreateSession(ctx, newSession(userID, book.ID, 60, now, time.Hour))
	require.NoError(t, err)
	assert.True(t, newlyCompleted)

	reloaded, err = bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, reloaded.Status)
}

func TestServiceCreateSession_AbandonedBookStaysAbandoned(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	bookService := books.NewService(db)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	book := createTestBook(ctx, t, db, userID, 100)

	require.NoError(t, bookService.SetStatus(ctx, book, models.StatusAbandoned))

	_, err := svc.CreateSession(ctx, newSession(userID, book.ID, 100, time.Now(), time.Hour))
	require.NoError(t, err)

	reloaded, err := bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAbandoned, reloaded.Status)
}

func TestServiceDeleteSession_RevertsStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	bookService := books.NewService(db)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	book := createTestBook(ctx, t, db, userID, 100)

	session := newSession(userID, book.ID, 40, time.Now(), time.Hour)
	_, err := svc.CreateSession(ctx, session)
	require.NoError(t, err)

	reloaded, err := bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCurrentlyReading, reloaded.Status)

	require.NoError(t, svc.DeleteSession(ctx, session))

	reloaded, err = bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusToBeRead, reloaded.Status)
}

func TestServiceUpdateSession_RecomputesProgress(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	bookService := books.NewService(db)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")
	book := createTestBook(ctx, t, db, userID, 100)

	session := newSession(userID, book.ID, 40, time.Now(), time.Hour)
	_, err := svc.CreateSession(ctx, session)
	require.NoError(t, err)

	session.PagesRead = 100
	newlyCompleted, err := svc.UpdateSession(ctx, session, UpdateSessionOptions{Columns: []string{"pages_read"}})
	require.NoError(t, err)
	assert.True(t, newlyCompleted)

	reloaded, err := bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, reloaded.Status)
}

func TestServiceRetrieveSession_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	ownerID := createTestUser(ctx, t, db, "owner")
	otherID := createTestUser(ctx, t, db, "other")
	book := createTestBook(ctx, t, db, ownerID, 100)

	session := newSession(ownerID, book.ID, 40, time.Now(), time.Hour)
	_, err := svc.CreateSession(ctx, session)
	require.NoError(t, err)

	_, err = svc.RetrieveSession(ctx, RetrieveSessionOptions{ID: &session.ID, UserID: &ownerID})
	require.NoError(t, err)

	_, err = svc.RetrieveSession(ctx, RetrieveSessionOptions{ID: &session.ID, UserID: &otherID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reading session not found")
}
