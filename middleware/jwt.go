package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims extends jwt.RegisteredClaims with the customer identity.
type Claims struct {
	Email     string `json:"email"`
	EmailHash string `json:"email_hash"`
	jwt.RegisteredClaims
}

// sessionTTL matches the original 30-day dashboard session.
const sessionTTL = 30 * 24 * time.Hour

// EmailHash returns a deterministic HMAC hash for the given email and key.
func EmailHash(email string, key []byte) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(normalized))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewSessionToken issues a signed session token for a customer email.
func NewSessionToken(email string, key []byte) (string, error) {
	claims := &Claims{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		EmailHash: EmailHash(email, key),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Session returns an Echo middleware that requires a valid session token in
// the Authorization header and stores the customer email on the context.
func Session(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, err := emailFromHeader(c, key)
			if err != nil {
				return err
			}
			c.Set("email", email)
			return next(c)
		}
	}
}

// OptionalSession stores the customer email when a valid token is present and
// otherwise continues with no identity. Handlers behind it must treat a
// missing email as "no session", never as an error.
func OptionalSession(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if email, err := emailFromHeader(c, key); err == nil {
				c.Set("email", email)
			}
			return next(c)
		}
	}
}

func emailFromHeader(c echo.Context, key []byte) (string, error) {
	token := c.Request().Header.Get("Authorization")
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	token = strings.TrimPrefix(token, "Bearer ")

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil || !tkn.Valid {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if claims.Email == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims.Email, nil
}
