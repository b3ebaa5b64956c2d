package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curvaqz/curvaqz/internal/logger"
	"github.com/curvaqz/curvaqz/internal/session"
	"github.com/curvaqz/curvaqz/internal/token"
)

// sessionResponse is the payload of both session endpoints. ExpiresAt is
// epoch milliseconds.
type sessionResponse struct {
	SessionID string  `json:"sessionId"`
	UserID    *string `json:"userId"`
	Token     string  `json:"token"`
	ExpiresAt int64   `json:"expiresAt"`
}

// Bootstrap always ends with a usable session: it reuses an active one,
// replaces a revoked or unknown one, and creates one when no cookie is
// presented.
func (h *Handler) Bootstrap(c *gin.Context) {
	result, err := h.gateway.Resolve(c.Writer, c.Request, session.ResolveOptions{
		CreateIfMissing: true,
		ReplaceRevoked:  true,
	})
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResult(result))
}

// Refresh re-issues a token for an existing active session. It fails rather
// than silently minting a new identity: 400 without a cookie, 401 when the
// session is unknown or revoked.
func (h *Handler) Refresh(c *gin.Context) {
	result, err := h.gateway.Resolve(c.Writer, c.Request, session.ResolveOptions{
		CreateIfMissing: false,
		ReplaceRevoked:  false,
	})
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResult(result))
}

func sessionResult(result *session.Result) sessionResponse {
	return sessionResponse{
		SessionID: result.Session.ID,
		UserID:    result.Session.UserID,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UnixMilli(),
	}
}

func (h *Handler) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session"})
	case errors.Is(err, session.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
	case errors.Is(err, token.ErrMissingSecret), errors.Is(err, token.ErrSigningFailed):
		// Never silently skipped: an unsigned token is a security hole.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to issue token",
			"detail": err.Error(),
		})
	default:
		h.log.ErrorContext(c.Request.Context(), "session resolve failed",
			logger.Component("session"), requestAttr(c), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
