package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all auth routes. The returned limiter owns a
// cleanup goroutine; callers stop it on shutdown.
func RegisterRoutes(e *echo.Echo, db *bun.DB, jwtSecret string, collector *metrics.Collector) (*Service, *LoginLimiter) {
	authService := NewService(db, jwtSecret)
	loginLimiter := NewLoginLimiter()

	h := &handler{
		authService:  authService,
		loginLimiter: loginLimiter,
		collector:    collector,
	}

	auth := e.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/me", h.me)

	return authService, loginLimiter
}
