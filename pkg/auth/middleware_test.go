package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedContext(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestMiddlewareAuthenticate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testJWTSecret)
	m := NewMiddleware(svc)
	ctx := context.Background()

	user, err := svc.Register(ctx, "reader", nil, "password123")
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	t.Run("valid token sets user in context", func(tt *testing.T) {
		c, _ := newAuthedContext(tt, token)
		err := m.Authenticate(next)(c)
		require.NoError(tt, err)

		userID, ok := GetUserIDFromContext(c)
		require.True(tt, ok)
		assert.Equal(tt, user.ID, userID)

		got := GetUserFromContext(c)
		require.NotNil(tt, got)
		assert.Equal(tt, "reader", got.Username)
	})

	t.Run("missing cookie is rejected", func(tt *testing.T) {
		c, _ := newAuthedContext(tt, "")
		err := m.Authenticate(next)(c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "Authentication required")
	})

	t.Run("garbage token is rejected", func(tt *testing.T) {
		c, _ := newAuthedContext(tt, "not-a-jwt")
		err := m.Authenticate(next)(c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "Invalid or expired token")
	})

	t.Run("deactivated user is rejected", func(tt *testing.T) {
		_, err := db.NewUpdate().
			Table("users").
			Set("is_active = ?", false).
			Where("id = ?", user.ID).
			Exec(ctx)
		require.NoError(tt, err)
		tt.Cleanup(func() {
			_, err := db.NewUpdate().
				Table("users").
				Set("is_active = ?", true).
				Where("id = ?", user.ID).
				Exec(ctx)
			require.NoError(tt, err)
		})

		c, _ := newAuthedContext(tt, token)
		err = m.Authenticate(next)(c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "User not found or inactive")
	})
}

func TestMiddlewareAuthenticateOptional(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testJWTSecret)
	m := NewMiddleware(svc)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	c, _ := newAuthedContext(t, "")
	err := m.AuthenticateOptional(next)(c)
	require.NoError(t, err)

	_, ok := GetUserIDFromContext(c)
	assert.False(t, ok)
}

func TestLoginLimiter(t *testing.T) {
	t.Parallel()

	ll := NewLoginLimiter()
	defer ll.Stop()

	for i := 0; i < loginBurst; i++ {
		assert.True(t, ll.Allow("10.0.0.1"))
	}
	assert.False(t, ll.Allow("10.0.0.1"))

	// A different client has its own bucket.
	assert.True(t, ll.Allow("10.0.0.2"))
}
