package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/gpx"
	"github.com/artlurun/api/ledger"
)

// Generator-facing write surface. Every route in this file sits behind the
// X-API-Key middleware.

// AttachPremiumData stores the finished premium bundle on a purchase. A
// repeat call overwrites the previous document (last write wins, no
// versioning). On success the customer's report-ready notice goes out
// best-effort.
func (h *Handler) AttachPremiumData(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid purchase id")
	}

	doc, err := readJSONDocument(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	purchase, err := h.ledger.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "purchase not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.ledger.AttachPremiumData(ctx, id, doc); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "purchase not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	name := ""
	if purchase.Name != nil {
		name = *purchase.Name
	}
	if ok := h.notifier.SendReportReady(purchase.Email, name, purchase.RaceName); !ok {
		h.log.Warn("report ready email not sent", zap.String("email", purchase.Email))
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// UpsertRaceContent overwrites a race's free content bundle. Content can only
// be attached to a race that already exists.
func (h *Handler) UpsertRaceContent(c echo.Context) error {
	slug := c.Param("slug")

	doc, err := readJSONDocument(c)
	if err != nil {
		return err
	}

	if err := h.catalog.SaveContent(c.Request().Context(), slug, doc); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "race not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "slug": slug})
}

type gpxWrapper struct {
	GPX string `json:"gpx"`
}

// UpsertElevationProfile derives a race's elevation profile from a GPX track
// log. Accepts raw GPX XML or JSON {"gpx": "<xml>"}. A track with no
// extractable elevation samples is treated the same as an unknown slug.
func (h *Handler) UpsertElevationProfile(c echo.Context) error {
	slug := c.Param("slug")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	raw := body
	if strings.Contains(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var wrapped gpxWrapper
		if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.GPX == "" {
			return echo.NewHTTPError(http.StatusBadRequest, `JSON body must include "gpx" field with GPX XML`)
		}
		raw = []byte(wrapped.GPX)
	}
	if len(raw) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no GPX data provided")
	}

	profile, err := gpx.Parse(raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid GPX: "+err.Error())
	}
	if profile.Empty() {
		return echo.NewHTTPError(http.StatusNotFound, "GPX has no elevation data")
	}

	elevations, err := json.Marshal(profile.ElevationsFt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	err = h.catalog.SaveElevationProfile(c.Request().Context(), slug, elevations, profile.DistanceMiles, profile.GainFt)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "race not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"slug":           slug,
		"points":         len(profile.ElevationsFt),
		"distance_miles": profile.DistanceMiles,
		"gain_ft":        profile.GainFt,
	})
}

// UpsertRace creates or updates a race keyed by slug. Only the fields present
// in the body are written on update; a single-field patch leaves everything
// else untouched.
func (h *Handler) UpsertRace(c echo.Context) error {
	var fields catalog.RaceFields
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	fields.Slug = strings.TrimSpace(fields.Slug)
	if fields.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}

	id, err := h.catalog.Upsert(c.Request().Context(), fields)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"race_id": id,
		"slug":    fields.Slug,
	})
}

type raceReadiness struct {
	Slug       string  `json:"slug"`
	Name       string  `json:"name"`
	Distance   string  `json:"distance"`
	Location   *string `json:"location"`
	HasContent bool    `json:"has_content"`
}

// ListRacesForGenerator reports which races still need a free content bundle.
func (h *Handler) ListRacesForGenerator(c echo.Context) error {
	races, err := h.catalog.All(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]raceReadiness, len(races))
	for i, r := range races {
		out[i] = raceReadiness{
			Slug:       r.Slug,
			Name:       r.Name,
			Distance:   r.Distance,
			Location:   r.Location,
			HasContent: r.HasContent(),
		}
	}

	return c.JSON(http.StatusOK, out)
}

// readJSONDocument reads the request body and requires it to be a non-empty,
// well-formed JSON document.
func readJSONDocument(c echo.Context) (json.RawMessage, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "no data provided")
	}
	if !json.Valid([]byte(trimmed)) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	return json.RawMessage(trimmed), nil
}
