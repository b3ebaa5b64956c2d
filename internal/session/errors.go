package session

import "errors"

var (
	// ErrNotFound is returned when a session cannot be found in the store.
	ErrNotFound = errors.New("session not found")
	// ErrUserNotFound is returned when a user cannot be found in the store.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateID is returned when creating a session with an ID that already exists.
	ErrDuplicateID = errors.New("session id already exists")
	// ErrIDGeneration is returned when the random source fails during ID generation.
	ErrIDGeneration = errors.New("failed to generate session id")
	// ErrNoSession is returned by the gateway when no session cookie is present
	// and the policy forbids creating one.
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession is returned by the gateway when the presented session is
	// unknown or revoked and the policy forbids replacing it.
	ErrInvalidSession = errors.New("invalid session")
)
