package session

import "context"

// UpsertUserParams carries the fields of a user upsert. Nil optional fields
// never overwrite stored values; the store coalesces on write.
type UpsertUserParams struct {
	ID          string
	DisplayName *string
	Provider    *string
	ProviderSub *string
}

// Store defines the persistence contract for sessions and users.
// Implementations must handle concurrent access safely; concurrent writes to
// the same session apply last-write-wins.
type Store interface {
	// GetSession returns the session with the given ID or ErrNotFound.
	GetSession(ctx context.Context, id string) (*Session, error)

	// CreateSession inserts a new non-revoked session. The caller supplies a
	// collision-free ID (see NewID); ErrDuplicateID signals it did not.
	CreateSession(ctx context.Context, id string, userID *string) (*Session, error)

	// TouchSession advances last_seen_at to now. Silently succeeds when the ID
	// does not exist; callers that care must check existence first.
	TouchSession(ctx context.Context, id string) error

	// LinkSessionToUser attaches a user to the session and refreshes last_seen_at.
	LinkSessionToUser(ctx context.Context, id, userID string) error

	// GetUser returns the user with the given ID or ErrUserNotFound.
	GetUser(ctx context.Context, id string) (*User, error)

	// UpsertUser inserts or updates a user. On conflict each optional field is
	// replaced only when the incoming value is non-nil; updated_at is always
	// refreshed. Returns the row as stored after the write.
	UpsertUser(ctx context.Context, params UpsertUserParams) (*User, error)
}
