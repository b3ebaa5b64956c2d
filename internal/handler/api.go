package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curvaqz/curvaqz/internal/logger"
	"github.com/curvaqz/curvaqz/internal/quizapi"
)

// Leagues serves the cached league list.
func (h *Handler) Leagues(c *gin.Context) {
	leagues, err := h.api.Leagues(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, leagues)
}

// Teams serves the cached team list of one league.
func (h *Handler) Teams(c *gin.Context) {
	leagueID, ok := h.pathID(c, "leagueId")
	if !ok {
		return
	}

	teams, err := h.api.Teams(c.Request.Context(), leagueID)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// Fixtures serves fixtures for a league, optionally narrowed to one team.
// ?last50=1 limits to the most recent 50. Never cached.
func (h *Handler) Fixtures(c *gin.Context) {
	leagueID, ok := h.pathID(c, "leagueId")
	if !ok {
		return
	}

	var teamID *int64
	if raw := c.Query("team"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team id"})
			return
		}
		teamID = &id
	}

	var (
		fixtures []quizapi.Fixture
		err      error
	)
	if c.Query("last50") == "1" {
		fixtures, err = h.api.Fixtures50(c.Request.Context(), leagueID, teamID)
	} else {
		fixtures, err = h.api.Fixtures(c.Request.Context(), leagueID, teamID)
	}
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, fixtures)
}

// QuizByFixture generates a quiz from a specific fixture.
func (h *Handler) QuizByFixture(c *gin.Context) {
	fixtureID, ok := h.pathID(c, "fixtureId")
	if !ok {
		return
	}

	generated, err := h.api.QuizByFixture(c.Request.Context(), fixtureID, quizParams(c))
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, generated)
}

// QuizByLatestFixture generates a quiz from a league's most recent fixture.
func (h *Handler) QuizByLatestFixture(c *gin.Context) {
	leagueID, ok := h.pathID(c, "leagueId")
	if !ok {
		return
	}

	generated, err := h.api.QuizByLatestFixture(c.Request.Context(), leagueID, quizParams(c))
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, generated)
}

func quizParams(c *gin.Context) quizapi.QuizParams {
	params := quizapi.QuizParams{Lang: c.Query("lang")}

	if raw := c.Query("length"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			params.Length = n
		}
	}
	if raw := c.Query("nbAnswers"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			params.NbAnswers = n
		}
	}
	if raw := c.Query("distinct"); raw != "" {
		v := raw == "1" || raw == "true"
		params.Distinct = &v
	}
	if raw := c.Query("shuffle"); raw != "" {
		v := raw == "1" || raw == "true"
		params.Shuffle = &v
	}

	return params
}

func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// upstreamError maps upstream API failures to 502 with the upstream status
// preserved in the detail; anything else is an internal error.
func (h *Handler) upstreamError(c *gin.Context, err error) {
	var apiErr *quizapi.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "Upstream quiz api failed",
			"detail": apiErr.Error(),
		})
		return
	}

	h.log.ErrorContext(c.Request.Context(), "upstream call failed",
		logger.Component("quizapi"), requestAttr(c), logger.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
