package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/models"
)

// Races returns the full public catalog ordered by name.
func (h *Handler) Races(c echo.Context) error {
	races, err := h.catalog.All(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, races)
}

// RacePage returns one race with its course sections, plus the premium status
// block for the purchasing session. Unauthenticated visitors get the same
// race data with a bare "none" report.
func (h *Handler) RacePage(c echo.Context) error {
	slug := c.Param("slug")
	ctx := c.Request().Context()

	race, err := h.catalog.BySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "race not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sections, err := h.catalog.Sections(ctx, race.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	email, _ := c.Get("email").(string)
	report, err := h.resolver.Resolve(ctx, email, slug)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"race":     race,
		"sections": sections,
		"premium":  report,
	})
}

type raceRequestBody struct {
	Email    string `json:"email" form:"email"`
	RaceName string `json:"race_name" form:"race_name"`
	RaceURL  string `json:"race_url" form:"race_url"`
	Notes    string `json:"notes" form:"notes"`
}

// RequestRace records a user-submitted request for a new race.
func (h *Handler) RequestRace(c echo.Context) error {
	var req raceRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.RaceName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "race_name is required")
	}

	rr := &models.RaceRequest{
		Email:    optional(req.Email),
		RaceName: strings.TrimSpace(req.RaceName),
		RaceURL:  optional(req.RaceURL),
		Notes:    optional(req.Notes),
	}
	if err := h.catalog.CreateRequest(c.Request().Context(), rr); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Thanks! We'll look into adding this race.",
	})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
