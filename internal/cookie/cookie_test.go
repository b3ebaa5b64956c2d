package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvaqz/curvaqz/internal/cookie"
)

func setCookie(t *testing.T, m *cookie.Manager, name, value string, opts ...cookie.Option) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, name, value, opts...))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestManager_Set(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		c := setCookie(t, cookie.New(), "session", "abc123")

		assert.Equal(t, "session", c.Name)
		assert.Equal(t, "abc123", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.False(t, c.Secure)
	})

	t.Run("per-call options override defaults", func(t *testing.T) {
		t.Parallel()

		c := setCookie(t, cookie.New(), "session", "abc123",
			cookie.WithMaxAge(3600),
			cookie.WithSecure(true),
			cookie.WithPath("/api"),
		)

		assert.Equal(t, 3600, c.MaxAge)
		assert.True(t, c.Secure)
		assert.Equal(t, "/api", c.Path)
	})

	t.Run("manager-level options become the new defaults", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithDomain("example.com"), cookie.WithSecure(true))
		c := setCookie(t, m, "session", "abc123")

		assert.Equal(t, "example.com", c.Domain)
		assert.True(t, c.Secure)
		assert.Equal(t, "/", c.Path)
	})

	t.Run("rejects oversized cookies", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		err := cookie.New().Set(w, "big", strings.Repeat("x", cookie.MaxCookieSize))
		require.ErrorIs(t, err, cookie.ErrCookieTooLarge)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestManager_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns the cookie value", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: "abc123"})

		value, err := cookie.New().Get(r, "session")
		require.NoError(t, err)
		assert.Equal(t, "abc123", value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := cookie.New().Get(r, "session")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	cookie.New().Delete(w, "session")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
