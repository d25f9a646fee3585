package sessions

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/books"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/shelfmark/shelfmark/pkg/models"
)

type handler struct {
	sessionService *Service
	bookService    *books.Service
	collector      *metrics.Collector
}

// create logs a session under /books/:id/sessions.
func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := CreateSessionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// The book must exist and belong to the caller.
	book, err := h.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{
		ID:     &bookID,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	session := &models.ReadingSession{
		UserID:    userID,
		BookID:    book.ID,
		PagesRead: params.PagesRead,
		StartedAt: params.StartedAt,
		EndedAt:   params.EndedAt,
		Notes:     params.Notes,
	}

	newlyCompleted, err := h.sessionService.CreateSession(ctx, session)
	if err != nil {
		return errors.WithStack(err)
	}
	h.collector.RecordSessionLogged(session.PagesRead)
	if newlyCompleted {
		h.collector.RecordBookCompleted()
	}

	return errors.WithStack(c.JSON(http.StatusCreated, session))
}

// listForBook lists a book's sessions, newest first.
func (h *handler) listForBook(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := ListSessionsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{
		ID:     &bookID,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	sessions, total, err := h.sessionService.ListSessionsWithTotal(ctx, ListSessionsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		UserID: &userID,
		BookID: &book.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Sessions []*models.ReadingSession `json:"sessions"`
		Total    int                      `json:"total"`
	}{sessions, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	session, err := h.sessionService.RetrieveSession(ctx, RetrieveSessionOptions{
		ID:          &id,
		UserID:      &userID,
		IncludeBook: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, session))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := UpdateSessionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	session, err := h.sessionService.RetrieveSession(ctx, RetrieveSessionOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateSessionOptions{Columns: []string{}}

	if params.PagesRead != nil && *params.PagesRead != session.PagesRead {
		session.PagesRead = *params.PagesRead
		opts.Columns = append(opts.Columns, "pages_read")
	}
	if params.StartedAt != nil && !params.StartedAt.Equal(session.StartedAt) {
		session.StartedAt = *params.StartedAt
		opts.Columns = append(opts.Columns, "started_at")
	}
	if params.EndedAt != nil && !params.EndedAt.Equal(session.EndedAt) {
		session.EndedAt = *params.EndedAt
		opts.Columns = append(opts.Columns, "ended_at")
	}
	if params.Notes != nil && *params.Notes != session.Notes {
		session.Notes = *params.Notes
		opts.Columns = append(opts.Columns, "notes")
	}

	newlyCompleted, err := h.sessionService.UpdateSession(ctx, session, opts)
	if err != nil {
		return errors.WithStack(err)
	}
	if newlyCompleted {
		h.collector.RecordBookCompleted()
	}

	return errors.WithStack(c.JSON(http.StatusOK, session))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	session, err := h.sessionService.RetrieveSession(ctx, RetrieveSessionOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.sessionService.DeleteSession(ctx, session)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
