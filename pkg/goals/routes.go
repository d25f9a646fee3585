package goals

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers goal routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, collector *metrics.Collector) {
	h := &handler{
		goalService: NewService(db),
		collector:   collector,
	}

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/progress", h.progress)
}
