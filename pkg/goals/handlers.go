package goals

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/tracker"
)

const dateLayout = "2006-01-02"

type handler struct {
	goalService *Service
	collector   *metrics.Collector
}

func parseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		// Catches well-formed but impossible dates like "2026-00-00".
		return time.Time{}, errcodes.ValidationError(fmt.Sprintf("%q is not a valid date", value))
	}
	return d, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := CreateGoalPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	startDate, err := parseDate(params.StartDate)
	if err != nil {
		return err
	}
	endDate, err := parseDate(params.EndDate)
	if err != nil {
		return err
	}

	goal := &models.ReadingGoal{
		UserID:      userID,
		GoalType:    models.GoalType(params.GoalType),
		TargetPages: params.TargetPages,
		TargetBooks: params.TargetBooks,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := h.goalService.CreateGoal(ctx, goal); err != nil {
		return errors.WithStack(err)
	}
	h.collector.RecordGoalCreated()

	return errors.WithStack(c.JSON(http.StatusCreated, goal))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := ListGoalsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListGoalsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		UserID: &userID,
	}
	if params.Active {
		now := time.Now()
		opts.ActiveOn = &now
	}

	goals, total, err := h.goalService.ListGoalsWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Goals []*models.ReadingGoal `json:"goals"`
		Total int                   `json:"total"`
	}{goals, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	goal, err := h.goalService.RetrieveGoal(ctx, RetrieveGoalOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, goal))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := UpdateGoalPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	goal, err := h.goalService.RetrieveGoal(ctx, RetrieveGoalOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateGoalOptions{Columns: []string{}}

	if params.TargetPages != nil && *params.TargetPages != goal.TargetPages {
		goal.TargetPages = *params.TargetPages
		opts.Columns = append(opts.Columns, "target_pages")
	}
	if params.TargetBooks != nil && *params.TargetBooks != goal.TargetBooks {
		goal.TargetBooks = *params.TargetBooks
		opts.Columns = append(opts.Columns, "target_books")
	}
	if params.StartDate != nil {
		startDate, err := parseDate(*params.StartDate)
		if err != nil {
			return err
		}
		goal.StartDate = startDate
		opts.Columns = append(opts.Columns, "start_date")
	}
	if params.EndDate != nil {
		endDate, err := parseDate(*params.EndDate)
		if err != nil {
			return err
		}
		goal.EndDate = endDate
		opts.Columns = append(opts.Columns, "end_date")
	}

	err = h.goalService.UpdateGoal(ctx, goal, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, goal))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	goal, err := h.goalService.RetrieveGoal(ctx, RetrieveGoalOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.goalService.DeleteGoal(ctx, goal)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// progress returns the goal plus its derived progress numbers.
func (h *handler) progress(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	goal, err := h.goalService.RetrieveGoal(ctx, RetrieveGoalOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	progress, err := h.goalService.Progress(ctx, goal, time.Now())
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to compute goal progress", logger.Data{"error": err.Error()})
		progress = &tracker.GoalProgress{}
	}

	resp := struct {
		Goal     *models.ReadingGoal   `json:"goal"`
		Progress *tracker.GoalProgress `json:"progress"`
	}{goal, progress}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
