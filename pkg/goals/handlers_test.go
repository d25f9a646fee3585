package goals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("valid date", func(tt *testing.T) {
		d, err := parseDate("2026-01-15")
		require.NoError(tt, err)
		assert.Equal(tt, date(2026, 1, 15), d)
	})

	t.Run("impossible date is a validation error", func(tt *testing.T) {
		_, err := parseDate("2026-00-00")
		require.Error(tt, err)

		apiErr := &errcodes.Error{}
		require.True(tt, errors.As(err, &apiErr))
		assert.Equal(tt, http.StatusUnprocessableEntity, apiErr.HTTPCode)
		assert.Equal(tt, `"2026-00-00" is not a valid date`, apiErr.Message)
	})

	t.Run("swapped month and day", func(tt *testing.T) {
		_, err := parseDate("2026-31-01")
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "not a valid date")
	})
}

func TestHandlerProgress_DegradesToZero(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	userID := createTestUser(ctx, t, db, "reader")

	goal := &models.ReadingGoal{
		UserID:      userID,
		GoalType:    models.GoalMonthly,
		TargetPages: 300,
		StartDate:   date(2026, 1, 1),
		EndDate:     date(2026, 1, 31),
	}
	require.NoError(t, svc.CreateGoal(ctx, goal))

	// Break the session aggregation so Progress fails while the goal itself
	// still loads.
	_, err := db.Exec("DROP TABLE reading_sessions")
	require.NoError(t, err)

	h := &handler{goalService: svc}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(goal.ID)
	c.Set("user_id", userID)

	require.NoError(t, h.progress(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pages_read":0`)
	assert.Contains(t, rec.Body.String(), goal.ID)
}
