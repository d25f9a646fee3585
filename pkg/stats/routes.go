package stats

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers stats routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		statsService: NewService(db, cfg.StatsWindowDays),
	}

	g.GET("/dashboard", h.dashboard)
	g.GET("/daily-pages", h.dailyPages)
	g.GET("/genres", h.genreDistribution)
	g.GET("/statuses", h.statusDistribution)
	g.GET("/streaks", h.streaks)
}
