package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MyPremium returns the premium content status report for the session
// customer and a race slug. Without a session identity it reports "none"
// without any storage access.
func (h *Handler) MyPremium(c echo.Context) error {
	email, _ := c.Get("email").(string)

	report, err := h.resolver.Resolve(c.Request().Context(), email, c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, report)
}
