package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvaqz/curvaqz/internal/cookie"
	"github.com/curvaqz/curvaqz/internal/session"
	"github.com/curvaqz/curvaqz/internal/token"
)

func newGateway(t *testing.T, store session.Store, secret string) *session.Gateway {
	t.Helper()
	issuer := token.NewIssuer(token.Config{Secret: secret})
	return session.NewGateway(store, issuer, cookie.New())
}

func bootstrapOpts() session.ResolveOptions {
	return session.ResolveOptions{CreateIfMissing: true, ReplaceRevoked: true}
}

func refreshOpts() session.ResolveOptions {
	return session.ResolveOptions{CreateIfMissing: false, ReplaceRevoked: false}
}

func requestWithSession(id string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/session/bootstrap", nil)
	if id != "" {
		r.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: id})
	}
	return r
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestGateway_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("no cookie with create mints a new session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		g := newGateway(t, store, "test-secret")
		w := httptest.NewRecorder()

		result, err := g.Resolve(w, requestWithSession(""), bootstrapOpts())
		require.NoError(t, err)
		require.NotNil(t, result.Session)
		assert.NotEmpty(t, result.Session.ID)
		assert.Nil(t, result.Session.UserID)
		assert.NotEmpty(t, result.Token)

		stored, err := store.GetSession(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, result.Session.ID, stored.ID)
	})

	t.Run("no cookie without create fails with ErrNoSession", func(t *testing.T) {
		t.Parallel()

		g := newGateway(t, session.NewMemoryStore(), "test-secret")
		w := httptest.NewRecorder()

		_, err := g.Resolve(w, requestWithSession(""), refreshOpts())
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("unknown id with create mints a new session", func(t *testing.T) {
		t.Parallel()

		g := newGateway(t, session.NewMemoryStore(), "test-secret")
		w := httptest.NewRecorder()

		result, err := g.Resolve(w, requestWithSession("ghost"), bootstrapOpts())
		require.NoError(t, err)
		assert.NotEqual(t, "ghost", result.Session.ID)
	})

	t.Run("unknown id without create fails with ErrInvalidSession", func(t *testing.T) {
		t.Parallel()

		g := newGateway(t, session.NewMemoryStore(), "test-secret")
		w := httptest.NewRecorder()

		_, err := g.Resolve(w, requestWithSession("ghost"), refreshOpts())
		assert.ErrorIs(t, err, session.ErrInvalidSession)
	})

	t.Run("active session is reused and touched", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		g := newGateway(t, store, "test-secret")

		created, err := store.CreateSession(context.Background(), "active", nil)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		w := httptest.NewRecorder()
		result, err := g.Resolve(w, requestWithSession("active"), bootstrapOpts())
		require.NoError(t, err)
		assert.Equal(t, "active", result.Session.ID)

		stored, err := store.GetSession(context.Background(), "active")
		require.NoError(t, err)
		assert.True(t, stored.LastSeenAt.After(created.LastSeenAt))
	})

	t.Run("revoked session is replaced when policy allows", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		g := newGateway(t, store, "test-secret")
		ctx := context.Background()

		_, err := store.CreateSession(ctx, "revoked", nil)
		require.NoError(t, err)
		require.NoError(t, store.Revoke(ctx, "revoked"))

		w := httptest.NewRecorder()
		result, err := g.Resolve(w, requestWithSession("revoked"), bootstrapOpts())
		require.NoError(t, err)
		assert.NotEqual(t, "revoked", result.Session.ID)

		// The revoked session is never touched, only replaced.
		old, err := store.GetSession(ctx, "revoked")
		require.NoError(t, err)
		assert.True(t, old.Revoked)
	})

	t.Run("revoked session fails when policy forbids replacement", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		g := newGateway(t, store, "test-secret")
		ctx := context.Background()

		_, err := store.CreateSession(ctx, "revoked", nil)
		require.NoError(t, err)
		require.NoError(t, store.Revoke(ctx, "revoked"))

		w := httptest.NewRecorder()
		_, err = g.Resolve(w, requestWithSession("revoked"), session.ResolveOptions{
			CreateIfMissing: true,
			ReplaceRevoked:  false,
		})
		assert.ErrorIs(t, err, session.ErrInvalidSession)
	})

	t.Run("missing signing secret fails the request", func(t *testing.T) {
		t.Parallel()

		g := newGateway(t, session.NewMemoryStore(), "")
		w := httptest.NewRecorder()

		_, err := g.Resolve(w, requestWithSession(""), bootstrapOpts())
		assert.ErrorIs(t, err, token.ErrMissingSecret)
	})
}

func TestGateway_Cookies(t *testing.T) {
	t.Parallel()

	t.Run("sets both auth cookies with shared flags", func(t *testing.T) {
		t.Parallel()

		g := newGateway(t, session.NewMemoryStore(), "test-secret")
		w := httptest.NewRecorder()

		result, err := g.Resolve(w, requestWithSession(""), bootstrapOpts())
		require.NoError(t, err)

		resp := w.Result()
		require.Len(t, resp.Cookies(), 2)

		sess := findCookie(t, resp, session.SessionCookie)
		assert.Equal(t, result.Session.ID, sess.Value)
		assert.Equal(t, 30*24*60*60, sess.MaxAge)
		assert.True(t, sess.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, sess.SameSite)
		assert.Equal(t, "/", sess.Path)
		assert.False(t, sess.Secure)

		access := findCookie(t, resp, session.AccessCookie)
		assert.Equal(t, result.Token, access.Value)
		assert.Equal(t, 60*60, access.MaxAge)
		assert.True(t, access.HttpOnly)
	})

	t.Run("marks cookies secure behind https", func(t *testing.T) {
		t.Parallel()

		g := newGateway(t, session.NewMemoryStore(), "test-secret")
		w := httptest.NewRecorder()

		r := requestWithSession("")
		r.Header.Set("X-Forwarded-Proto", "https")

		_, err := g.Resolve(w, r, bootstrapOpts())
		require.NoError(t, err)

		resp := w.Result()
		assert.True(t, findCookie(t, resp, session.SessionCookie).Secure)
		assert.True(t, findCookie(t, resp, session.AccessCookie).Secure)
	})
}
