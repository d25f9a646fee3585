package stats

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
)

type handler struct {
	statsService *Service
}

// dashboard returns the dashboard summary. Aggregation failures degrade to a
// zeroed payload so the page still renders.
func (h *handler) dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	stats, err := h.statsService.Dashboard(ctx, userID, time.Now())
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to compute dashboard stats", logger.Data{"error": err.Error()})
		stats = &DashboardStats{
			CurrentlyReading: []*models.Book{},
			WindowDays:       h.statsService.WindowDays(),
		}
	}

	return errors.WithStack(c.JSON(http.StatusOK, stats))
}

func (h *handler) dailyPages(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := WindowQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	days := params.Days
	if days == 0 {
		days = h.statsService.WindowDays()
	}

	series, err := h.statsService.DailyPages(ctx, userID, days, time.Now())
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to compute daily pages", logger.Data{"error": err.Error()})
		series = []DailyPages{}
	}

	resp := struct {
		Days  []DailyPages `json:"days"`
		Total int          `json:"total"`
	}{series, len(series)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) genreDistribution(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	counts, err := h.statsService.GenreDistribution(ctx, userID)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to compute genre distribution", logger.Data{"error": err.Error()})
		counts = []GenreCount{}
	}

	resp := struct {
		Genres []GenreCount `json:"genres"`
	}{counts}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) statusDistribution(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	counts, err := h.statsService.StatusDistribution(ctx, userID)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to compute status distribution", logger.Data{"error": err.Error()})
		counts = []StatusCount{}
	}

	resp := struct {
		Statuses []StatusCount `json:"statuses"`
	}{counts}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) streaks(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := WindowQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	days := params.Days
	if days == 0 {
		days = h.statsService.WindowDays()
	}

	streaks, err := h.statsService.Streaks(ctx, userID, days, time.Now())
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to compute streaks", logger.Data{"error": err.Error()})
		streaks = &StreakStats{WindowDays: days}
	}

	return errors.WithStack(c.JSON(http.StatusOK, streaks))
}
