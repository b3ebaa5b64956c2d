// Package handler wires the HTTP surface: session bootstrap/refresh, stored
// quiz retrieval, the read API passthrough to the upstream quiz provider, and
// health checks.
package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/curvaqz/curvaqz/internal/quiz"
	"github.com/curvaqz/curvaqz/internal/quizapi"
	"github.com/curvaqz/curvaqz/internal/session"
)

// HealthCheck probes one dependency; a non-nil error marks it unhealthy.
type HealthCheck func(ctx context.Context) error

// Handler carries the dependencies of all HTTP endpoints.
type Handler struct {
	gateway *session.Gateway
	quizzes quiz.Store
	api     *quizapi.Client
	checks  map[string]HealthCheck
	log     *slog.Logger
}

// New creates the handler set.
func New(gateway *session.Gateway, quizzes quiz.Store, api *quizapi.Client, checks map[string]HealthCheck, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		gateway: gateway,
		quizzes: quizzes,
		api:     api,
		checks:  checks,
		log:     log,
	}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID())

	r.POST("/session/bootstrap", h.Bootstrap)
	r.POST("/session/refresh", h.Refresh)
	r.GET("/quiz/:quizId", h.GetQuiz)

	api := r.Group("/api")
	api.GET("/leagues", h.Leagues)
	api.GET("/leagues/:leagueId/teams", h.Teams)
	api.GET("/leagues/:leagueId/fixtures", h.Fixtures)
	api.GET("/quiz/fixture/:fixtureId", h.QuizByFixture)
	api.GET("/quiz/league/:leagueId/latest", h.QuizByLatestFixture)

	r.GET("/health", h.Health)

	return r
}
