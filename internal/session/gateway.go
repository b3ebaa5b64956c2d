package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/curvaqz/curvaqz/internal/cookie"
	"github.com/curvaqz/curvaqz/internal/token"
)

const (
	// SessionCookie carries the opaque session identifier.
	SessionCookie = "cq_session"
	// AccessCookie carries the signed access token.
	AccessCookie = "cq_access"

	sessionCookieMaxAge = 30 * 24 * 60 * 60 // 30 days, in seconds
	accessCookieMaxAge  = 60 * 60           // 1 hour, in seconds
)

// ResolveOptions controls gateway policy for a single request.
type ResolveOptions struct {
	// CreateIfMissing mints a new session when no cookie is present or the
	// presented ID is unknown. When false the gateway fails with ErrNoSession
	// or ErrInvalidSession instead of silently minting a new identity.
	CreateIfMissing bool
	// ReplaceRevoked mints a new session when the presented one is revoked.
	// A revoked session is never touched or reused, only replaced.
	ReplaceRevoked bool
}

// Result is the outcome of a successful resolve: the active session, a fresh
// access token, and its expiry.
type Result struct {
	Session   *Session
	Token     string
	ExpiresAt time.Time
}

// Gateway resolves an inbound session cookie to an active session, creating
// or rotating as policy allows, and orchestrates the token issuer and store.
type Gateway struct {
	store   Store
	issuer  *token.Issuer
	cookies *cookie.Manager
}

// NewGateway creates a session gateway over the given store and issuer.
func NewGateway(store Store, issuer *token.Issuer, cookies *cookie.Manager) *Gateway {
	return &Gateway{
		store:   store,
		issuer:  issuer,
		cookies: cookies,
	}
}

// Resolve applies the per-request session policy:
//
//	cookie absent / ID unknown  -> create when CreateIfMissing, else ErrNoSession / ErrInvalidSession
//	session revoked             -> create when ReplaceRevoked, else ErrInvalidSession
//	session active              -> touch (refresh last_seen_at)
//
// On success it issues a token and sets both auth cookies on the response.
func (g *Gateway) Resolve(w http.ResponseWriter, r *http.Request, opts ResolveOptions) (*Result, error) {
	ctx := r.Context()

	sess, err := g.resolveSession(ctx, r, opts)
	if err != nil {
		return nil, err
	}

	tok, exp, err := g.issuer.Issue(sess.ID, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("issue token for session %s: %w", sess.ID, err)
	}

	if err := g.setAuthCookies(w, r, sess.ID, tok); err != nil {
		return nil, err
	}

	return &Result{Session: sess, Token: tok, ExpiresAt: exp}, nil
}

func (g *Gateway) resolveSession(ctx context.Context, r *http.Request, opts ResolveOptions) (*Session, error) {
	id, err := g.cookies.Get(r, SessionCookie)
	if err != nil || id == "" {
		if !opts.CreateIfMissing {
			return nil, ErrNoSession
		}
		return g.createSession(ctx)
	}

	sess, err := g.store.GetSession(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		if !opts.CreateIfMissing {
			return nil, ErrInvalidSession
		}
		return g.createSession(ctx)
	case err != nil:
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.Revoked {
		if !opts.ReplaceRevoked {
			return nil, ErrInvalidSession
		}
		return g.createSession(ctx)
	}

	if err := g.store.TouchSession(ctx, sess.ID); err != nil {
		return nil, fmt.Errorf("touch session %s: %w", sess.ID, err)
	}
	sess.LastSeenAt = time.Now()

	return sess, nil
}

func (g *Gateway) createSession(ctx context.Context) (*Session, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}

	sess, err := g.store.CreateSession(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (g *Gateway) setAuthCookies(w http.ResponseWriter, r *http.Request, sessionID, tok string) error {
	secure := requestIsSecure(r)

	if err := g.cookies.Set(w, SessionCookie, sessionID,
		cookie.WithMaxAge(sessionCookieMaxAge),
		cookie.WithSecure(secure),
	); err != nil {
		return fmt.Errorf("set session cookie: %w", err)
	}

	if err := g.cookies.Set(w, AccessCookie, tok,
		cookie.WithMaxAge(accessCookieMaxAge),
		cookie.WithSecure(secure),
	); err != nil {
		return fmt.Errorf("set access cookie: %w", err)
	}

	return nil
}

// requestIsSecure reports whether the request arrived over HTTPS, directly or
// through a TLS-terminating proxy.
func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
