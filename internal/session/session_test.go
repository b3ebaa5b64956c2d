package session_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvaqz/curvaqz/internal/session"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	t.Run("encodes 128 bits without padding", func(t *testing.T) {
		t.Parallel()

		id, err := session.NewID()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(id)
		require.NoError(t, err)
		assert.Len(t, raw, 16)
	})

	t.Run("generates distinct identifiers", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]bool)
		for range 100 {
			id, err := session.NewID()
			require.NoError(t, err)
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	})
}
