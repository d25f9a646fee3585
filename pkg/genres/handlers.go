package genres

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct{}

func (h *handler) list(c echo.Context) error {
	response := map[string]any{
		"genres": All,
		"total":  len(All),
	}
	return errors.WithStack(c.JSON(http.StatusOK, response))
}
