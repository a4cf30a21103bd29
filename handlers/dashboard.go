package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/ledger"
	mw "github.com/artlurun/api/middleware"
	"github.com/artlurun/api/models"
	"github.com/artlurun/api/status"
)

type loginRequest struct {
	Email      string `json:"email" form:"email"`
	AccessCode string `json:"access_code" form:"access_code"`
}

type purchaseSummary struct {
	*models.Purchase
	Status status.Status `json:"status"`
}

// Login authenticates a customer with email + access code and returns a
// session token. The rejection message never distinguishes an unknown email
// from a wrong code.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Email = strings.TrimSpace(req.Email)
	req.AccessCode = strings.TrimSpace(req.AccessCode)
	if req.Email == "" || req.AccessCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and access_code are required")
	}

	if _, err := h.ledger.ByCode(c.Request().Context(), req.Email, req.AccessCode); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or access code")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := mw.NewSessionToken(req.Email, h.cfg.JWTKey())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// Purchases returns the session customer's purchases, newest first, each with
// its content status.
func (h *Handler) Purchases(c echo.Context) error {
	email, _ := c.Get("email").(string)

	purchases, err := h.ledger.ByEmail(c.Request().Context(), email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]purchaseSummary, len(purchases))
	for i := range purchases {
		out[i] = purchaseSummary{
			Purchase: &purchases[i],
			Status:   status.Of(&purchases[i]),
		}
	}

	return c.JSON(http.StatusOK, out)
}

// Report returns one purchase with its race and status report. The purchase
// must belong to the session customer.
func (h *Handler) Report(c echo.Context) error {
	email, _ := c.Get("email").(string)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid purchase id")
	}

	ctx := c.Request().Context()
	purchase, err := h.ledger.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if purchase.Email != strings.ToLower(email) {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}

	race := h.raceForPurchase(c, purchase)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"purchase": purchase,
		"race":     race,
		"report":   status.ReportFor(purchase),
	})
}

// raceForPurchase resolves the purchase's race. The stored race id is
// canonical; the name-derived slug only serves legacy rows that predate id
// capture, and its use is flagged because the derivation can disagree with
// the real slug.
func (h *Handler) raceForPurchase(c echo.Context, p *models.Purchase) *models.Race {
	ctx := c.Request().Context()

	if p.RaceID != nil {
		race, err := h.catalog.ByID(ctx, *p.RaceID)
		if err == nil {
			return race
		}
		return nil
	}

	slug := catalog.SlugFromName(p.RaceName)
	race, err := h.catalog.BySlug(ctx, slug)
	if err != nil {
		return nil
	}
	h.log.Warn("purchase resolved by name-derived slug fallback",
		zap.Int("purchase_id", p.ID),
		zap.String("race_name", p.RaceName),
		zap.String("derived_slug", slug))
	return race
}
