package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func sessionRequest(t *testing.T, m echo.MiddlewareFunc, authHeader string) (string, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotEmail string
	h := m(func(c echo.Context) error {
		gotEmail, _ = c.Get("email").(string)
		return c.NoContent(http.StatusOK)
	})
	return gotEmail, h(c)
}

func TestSessionRoundTrip(t *testing.T) {
	token, err := NewSessionToken("Runner@Example.com", testKey)
	require.NoError(t, err)

	email, err := sessionRequest(t, Session(testKey), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "runner@example.com", email)
}

func TestSessionMissingHeader(t *testing.T) {
	_, err := sessionRequest(t, Session(testKey), "")
	require.Error(t, err)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestSessionWrongKey(t *testing.T) {
	token, err := NewSessionToken("runner@example.com", []byte("other-key"))
	require.NoError(t, err)

	_, err = sessionRequest(t, Session(testKey), "Bearer "+token)
	require.Error(t, err)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestOptionalSessionWithoutToken(t *testing.T) {
	email, err := sessionRequest(t, OptionalSession(testKey), "")
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestOptionalSessionWithToken(t *testing.T) {
	token, err := NewSessionToken("runner@example.com", testKey)
	require.NoError(t, err)

	email, err := sessionRequest(t, OptionalSession(testKey), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "runner@example.com", email)
}

func TestEmailHashDeterministicAndNormalized(t *testing.T) {
	a := EmailHash("Runner@Example.com ", testKey)
	b := EmailHash("runner@example.com", testKey)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, EmailHash("other@example.com", testKey))
}
