package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Session is a durable server-side record identifying a client across
// requests. UserID stays nil until a login links the session to a user.
type Session struct {
	ID         string
	UserID     *string
	CreatedAt  time.Time
	LastSeenAt time.Time
	Revoked    bool
}

// User is an account attached to one or more sessions. The optional fields
// mirror what external identity providers supply; a (Provider, ProviderSub)
// pair identifies one person even though persistence keys on ID.
type User struct {
	ID          string
	DisplayName *string
	Provider    *string
	ProviderSub *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewID generates an opaque session identifier from 128 bits of randomness,
// encoded as base64 URL-safe without padding. Collision probability is low
// enough that CreateSession treats a duplicate as a caller bug.
func NewID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
