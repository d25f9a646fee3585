package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/genres"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/tracker"
)

type handler struct {
	bookService *Service
	collector   *metrics.Collector
}

// BookResponse is a book payload with its derived progress percentage.
type BookResponse struct {
	*models.Book
	Progress float64 `json:"progress"`
}

func buildBookResponse(book *models.Book) BookResponse {
	pagesRead := 0
	for _, session := range book.Sessions {
		pagesRead += session.PagesRead
	}
	return BookResponse{
		Book:     book,
		Progress: tracker.Percentage(pagesRead, book.TotalPages),
	}
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if !genres.IsValid(params.Genre) {
		return errcodes.ValidationError(`"genre" must be a known genre code`)
	}

	book := &models.Book{
		UserID:     userID,
		Title:      params.Title,
		Author:     params.Author,
		ISBN:       params.ISBN,
		TotalPages: params.TotalPages,
		Genre:      params.Genre,
		Status:     models.StatusToBeRead,
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}
	h.collector.RecordBookCreated()

	return errors.WithStack(c.JSON(http.StatusCreated, buildBookResponse(book)))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:              &id,
		UserID:          &userID,
		IncludeSessions: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildBookResponse(book)))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListBooksOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		UserID: &userID,
		Genre:  params.Genre,
		Search: params.Search,
	}
	if params.Status != nil {
		status := models.ReadingStatus(*params.Status)
		opts.Status = &status
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	responses := make([]BookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, buildBookResponse(book))
	}

	resp := struct {
		Books []BookResponse `json:"books"`
		Total int            `json:"total"`
	}{responses, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateBookOptions{Columns: []string{}}
	totalPagesChanged := false

	if params.Title != nil && *params.Title != book.Title {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Author != nil && *params.Author != book.Author {
		book.Author = *params.Author
		opts.Columns = append(opts.Columns, "author")
	}
	if params.ISBN != nil {
		book.ISBN = params.ISBN
		opts.Columns = append(opts.Columns, "isbn")
	}
	if params.TotalPages != nil && *params.TotalPages != book.TotalPages {
		book.TotalPages = *params.TotalPages
		opts.Columns = append(opts.Columns, "total_pages")
		totalPagesChanged = true
	}
	if params.Genre != nil && *params.Genre != book.Genre {
		if !genres.IsValid(*params.Genre) {
			return errcodes.ValidationError(`"genre" must be a known genre code`)
		}
		book.Genre = *params.Genre
		opts.Columns = append(opts.Columns, "genre")
	}

	err = h.bookService.UpdateBook(ctx, book, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	// A new page count can move the book across the completion threshold.
	if totalPagesChanged {
		_, newlyCompleted, err := h.bookService.Recompute(ctx, book)
		if err != nil {
			return errors.WithStack(err)
		}
		if newlyCompleted {
			h.collector.RecordBookCompleted()
		}
	}

	// Reload the model.
	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:              &id,
		UserID:          &userID,
		IncludeSessions: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildBookResponse(book)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.bookService.DeleteBook(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// markCompleted sets the book to completed, then rederives the status from
// its sessions. Only abandoned is sticky, so a book whose sessions don't add
// up to its page count drops back to currently reading.
func (h *handler) markCompleted(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	previous := book.Status
	if previous != models.StatusCompleted {
		err = h.bookService.SetStatus(ctx, book, models.StatusCompleted)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	progress, _, err := h.bookService.Recompute(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}
	if previous != models.StatusCompleted && book.Status == models.StatusCompleted {
		h.collector.RecordBookCompleted()
	}

	return errors.WithStack(c.JSON(http.StatusOK, BookResponse{Book: book, Progress: progress}))
}

// markAbandoned shelves the book. Abandoned status sticks even when more
// sessions are logged for it, so the rederive after the write is a no-op for
// the status and only refreshes the progress figure.
func (h *handler) markAbandoned(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if book.Status != models.StatusAbandoned {
		err = h.bookService.SetStatus(ctx, book, models.StatusAbandoned)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	progress, _, err := h.bookService.Recompute(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, BookResponse{Book: book, Progress: progress}))
}
