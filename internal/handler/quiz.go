package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curvaqz/curvaqz/internal/logger"
	"github.com/curvaqz/curvaqz/internal/quiz"
	"github.com/curvaqz/curvaqz/internal/quizapi"
	"github.com/curvaqz/curvaqz/internal/session"
)

// quizResponse is the payload of GET /quiz/:quizId.
type quizResponse struct {
	QuizID    string             `json:"quizId"`
	SessionID string             `json:"sessionId"`
	Source    string             `json:"source"`
	Metadata  json.RawMessage    `json:"metadata"`
	Questions []quizapi.Question `json:"questions"`
}

// GetQuiz serves a stored quiz. It auto-bootstraps a session when none is
// presented, but refuses to replace a revoked one.
func (h *Handler) GetQuiz(c *gin.Context) {
	quizID := c.Param("quizId")
	if quizID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing quiz id"})
		return
	}

	result, err := h.gateway.Resolve(c.Writer, c.Request, session.ResolveOptions{
		CreateIfMissing: true,
		ReplaceRevoked:  false,
	})
	if err != nil {
		h.sessionError(c, err)
		return
	}

	record, err := h.quizzes.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
			return
		}
		h.log.ErrorContext(c.Request.Context(), "quiz lookup failed",
			logger.Component("quiz"), requestAttr(c), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if len(record.Payload) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz payload unavailable"})
		return
	}

	stored, err := quiz.RevivePayload(record.Payload)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "stored quiz payload failed to revive",
			logger.Component("quiz"), requestAttr(c), slog.String("quiz_id", quizID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Quiz data invalid"})
		return
	}

	c.JSON(http.StatusOK, quizResponse{
		QuizID:    stored.QuizID,
		SessionID: result.Session.ID,
		Source:    stored.Source,
		Metadata:  stored.Metadata,
		Questions: stored.Questions,
	})
}
