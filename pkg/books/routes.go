package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, collector *metrics.Collector) {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
		collector:   collector,
	}

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/complete", h.markCompleted)
	g.POST("/:id/abandon", h.markAbandoned)
}
