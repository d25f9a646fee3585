package sessions

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/books"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroups registers session routes. Creation and per-book
// listing hang off the books group; the rest live under /sessions.
func RegisterRoutesWithGroups(booksGroup, sessionsGroup *echo.Group, db *bun.DB, collector *metrics.Collector) {
	h := &handler{
		sessionService: NewService(db),
		bookService:    books.NewService(db),
		collector:      collector,
	}

	booksGroup.POST("/:id/sessions", h.create)
	booksGroup.GET("/:id/sessions", h.listForBook)

	sessionsGroup.GET("/:id", h.retrieve)
	sessionsGroup.POST("/:id", h.update)
	sessionsGroup.DELETE("/:id", h.delete)
}
