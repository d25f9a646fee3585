package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/binder"
	"github.com/shelfmark/shelfmark/pkg/books"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/genres"
	"github.com/shelfmark/shelfmark/pkg/goals"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/shelfmark/shelfmark/pkg/profiles"
	"github.com/shelfmark/shelfmark/pkg/sessions"
	"github.com/shelfmark/shelfmark/pkg/stats"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	// Register auth routes and get the auth service
	authService, loginLimiter := auth.RegisterRoutes(e, db, cfg.JWTSecret, collector)
	authMiddleware := auth.NewMiddleware(authService)

	profiles.RegisterPublicRoutes(e, db, authMiddleware)

	registerProtectedRoutes(e, db, cfg, authMiddleware, collector)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}
	srv.RegisterOnShutdown(loginLimiter.Stop)

	return srv, nil
}

// registerProtectedRoutes registers all routes that require a logged-in user.
func registerProtectedRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware, collector *metrics.Collector) {
	booksGroup := e.Group("/books")
	booksGroup.Use(authMiddleware.Authenticate)
	books.RegisterRoutesWithGroup(booksGroup, db, collector)

	sessionsGroup := e.Group("/sessions")
	sessionsGroup.Use(authMiddleware.Authenticate)
	sessions.RegisterRoutesWithGroups(booksGroup, sessionsGroup, db, collector)

	goalsGroup := e.Group("/goals")
	goalsGroup.Use(authMiddleware.Authenticate)
	goals.RegisterRoutesWithGroup(goalsGroup, db, collector)

	profileGroup := e.Group("/profile")
	profileGroup.Use(authMiddleware.Authenticate)
	profiles.RegisterRoutesWithGroup(profileGroup, db)

	statsGroup := e.Group("/stats")
	statsGroup.Use(authMiddleware.Authenticate)
	stats.RegisterRoutesWithGroup(statsGroup, db, cfg)

	genresGroup := e.Group("/genres")
	genresGroup.Use(authMiddleware.Authenticate)
	genres.RegisterRoutesWithGroup(genresGroup)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
