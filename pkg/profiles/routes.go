package profiles

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers profile routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		profileService: NewService(db),
	}

	g.GET("", h.retrieve)
	g.POST("", h.update)
}

// RegisterPublicRoutes registers the by-username profile view. Auth is
// optional so owners can see their own private profile.
func RegisterPublicRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		profileService: NewService(db),
	}

	e.GET("/users/:username", h.retrievePublic, authMiddleware.AuthenticateOptional)
}
