package genres

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers genre routes on the given group.
func RegisterRoutesWithGroup(g *echo.Group) {
	h := &handler{}

	g.GET("", h.list)
}
