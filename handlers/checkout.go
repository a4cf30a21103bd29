package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	mw "github.com/artlurun/api/middleware"
	"github.com/artlurun/api/reconcile"
)

type checkoutRequest struct {
	RaceSlug string `json:"race_slug" form:"race_slug"`
	RaceName string `json:"race_name" form:"race_name"`
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	GoalTime string `json:"goal_time" form:"goal_time"`
	City     string `json:"city" form:"city"`
	State    string `json:"state" form:"state"`
}

// Checkout handles the purchase form submission.
//
// With a payment collaborator configured it returns the handoff data the
// client needs to start the external payment flow; the purchase itself is
// created later by the webhook. Without one (dev mode) the purchase is
// created directly and the response carries the access code and a session
// token, mirroring the original auto-login.
func (h *Handler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Email = strings.TrimSpace(req.Email)
	req.RaceName = strings.TrimSpace(req.RaceName)
	if req.Email == "" || req.RaceName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and race_name are required")
	}

	if h.cfg.PaymentsConfigured() {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"amount_cents": h.cfg.PlanPriceCents,
			"currency":     "usd",
			"description":  fmt.Sprintf("Personalized Race Plan — %s", req.RaceName),
			"metadata": map[string]string{
				"race_slug": req.RaceSlug,
				"race_name": req.RaceName,
				"email":     req.Email,
				"name":      req.Name,
				"goal_time": req.GoalTime,
				"city":      req.City,
				"state":     req.State,
			},
		})
	}

	code, err := h.reconciler.Reconcile(c.Request().Context(), reconcile.PaymentEvent{
		Email:    req.Email,
		Name:     req.Name,
		RaceSlug: req.RaceSlug,
		RaceName: req.RaceName,
		GoalTime: req.GoalTime,
		City:     req.City,
		State:    req.State,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := mw.NewSessionToken(req.Email, h.cfg.JWTKey())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"access_code": code,
		"token":       token,
		"status":      "building",
	})
}

// PaymentWebhook consumes a payment-confirmed event. The payload must carry a
// valid HMAC-SHA256 signature over the raw body; anything past that check is
// trusted. Redelivered events succeed with the original access code.
func (h *Handler) PaymentWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sig := c.Request().Header.Get("X-Payment-Signature")
	if !validSignature(body, sig, h.cfg.PaymentWebhookSecret) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	var ev reconcile.PaymentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if ev.PaymentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_id is required")
	}

	code, err := h.reconciler.Reconcile(c.Request().Context(), ev)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"access_code": code})
}

func validSignature(body []byte, sigHex, secret string) bool {
	if secret == "" || sigHex == "" {
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hmac.Equal(sig, mac.Sum(nil))
}
