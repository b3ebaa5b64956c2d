package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curvaqz/curvaqz/internal/logger"
)

// Health runs the configured dependency checks. Any failure yields 503 with
// the failing components named.
func (h *Handler) Health(c *gin.Context) {
	failed := make(map[string]string)
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			failed[name] = err.Error()
			h.log.WarnContext(c.Request.Context(), "healthcheck failed",
				logger.Component(name), logger.Error(err))
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
