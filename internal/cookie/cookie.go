// Package cookie wraps HTTP cookie operations behind a manager carrying
// shared defaults, so every cookie the service sets gets the same baseline
// attributes (path /, httpOnly, SameSite=Lax) without repeating them at each
// call site.
package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MaxCookieSize is the maximum size for a serialized cookie header (4KB).
const MaxCookieSize = 4096

var (
	// ErrCookieNotFound is returned when the named cookie is absent from the request.
	ErrCookieNotFound = errors.New("cookie not found")
	// ErrCookieTooLarge is returned when a cookie exceeds MaxCookieSize.
	ErrCookieTooLarge = errors.New("cookie exceeds maximum size")
)

// Manager sets and reads cookies with shared defaults.
type Manager struct {
	defaults Options
	maxSize  int
}

// New creates a cookie manager. Defaults are path /, httpOnly, SameSite=Lax;
// per-cookie options override them.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	defaults = applyOptions(defaults, opts)

	return &Manager{
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}
}

// Set writes a cookie to the response, applying manager defaults first and
// the given options on top.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	if header := c.String(); len(header) > m.maxSize {
		return fmt.Errorf("%w: %q is %d bytes, max %d", ErrCookieTooLarge, name, len(header), m.maxSize)
	}

	http.SetCookie(w, c)
	return nil
}

// Get retrieves a cookie value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}
