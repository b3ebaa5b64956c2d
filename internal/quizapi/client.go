// Package quizapi is the client for the upstream read-only quiz API. It
// builds authenticated GET requests, normalizes the drifting upstream payload
// shapes into one canonical representation at this boundary, and routes the
// slow-moving endpoints (leagues, teams) through the read-through cache.
package quizapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/curvaqz/curvaqz/internal/cache"
)

// DefaultBaseURL is the production quiz API endpoint.
const DefaultBaseURL = "https://clashui.inia.fr/api/quiz/"

// cacheKeyLeagues holds the league list; team entries are partitioned per
// league (qz:teams:<leagueId>) so one league's entry never serves another's.
const cacheKeyLeagues = "qz:leagues"

// Config holds upstream API configuration with environment variable support.
type Config struct {
	BaseURL   string `env:"QUIZ_API_BASE" envDefault:"https://clashui.inia.fr/api/quiz/"`
	AuthToken string `env:"QUIZ_API_AUTH"`
}

// APIError carries the HTTP status and response body of a failed upstream call.
type APIError struct {
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quiz api %q failed (%d): %s", e.Path, e.Status, e.Body)
}

// Client calls the upstream quiz API.
type Client struct {
	baseURL   *url.URL
	authToken string
	httpc     *http.Client
	cache     *cache.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client; tests use this to point
// the client at a local server with custom transport settings.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// New creates a quiz API client. cacheClient routes the cacheable endpoints;
// it must be non-nil (construct it with a nil backend to disable caching).
func New(cfg Config, cacheClient *cache.Client, opts ...Option) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse quiz api base url: %w", err)
	}

	c := &Client{
		baseURL:   baseURL,
		authToken: cfg.AuthToken,
		httpc:     &http.Client{Timeout: 30 * time.Second},
		cache:     cacheClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Leagues lists all leagues. Cached under a single key.
func (c *Client) Leagues(ctx context.Context) ([]League, error) {
	return cache.Fetch(ctx, c.cache, cacheKeyLeagues, func(ctx context.Context) ([]League, error) {
		var leagues []League
		if err := c.get(ctx, "leagues", nil, &leagues); err != nil {
			return nil, err
		}
		return leagues, nil
	})
}

// Teams lists the teams of a league. Cached per league id.
func (c *Client) Teams(ctx context.Context, leagueID int64) ([]Team, error) {
	key := fmt.Sprintf("qz:teams:%d", leagueID)
	return cache.Fetch(ctx, c.cache, key, func(ctx context.Context) ([]Team, error) {
		params := url.Values{}
		params.Set("league", strconv.FormatInt(leagueID, 10))

		var teams []Team
		if err := c.get(ctx, "teams", params, &teams); err != nil {
			return nil, err
		}
		return teams, nil
	})
}

// Fixtures lists fixtures for a league, optionally narrowed to one team.
// Not cached; fixture data changes too frequently.
func (c *Client) Fixtures(ctx context.Context, leagueID int64, teamID *int64) ([]Fixture, error) {
	return c.fixtures(ctx, "fixtures", leagueID, teamID)
}

// Fixtures50 lists the last 50 fixtures for a league, optionally narrowed to
// one team. Not cached.
func (c *Client) Fixtures50(ctx context.Context, leagueID int64, teamID *int64) ([]Fixture, error) {
	return c.fixtures(ctx, "fixtures_50", leagueID, teamID)
}

func (c *Client) fixtures(ctx context.Context, path string, leagueID int64, teamID *int64) ([]Fixture, error) {
	params := url.Values{}
	params.Set("league", strconv.FormatInt(leagueID, 10))
	if teamID != nil {
		params.Set("team", strconv.FormatInt(*teamID, 10))
	}

	var fixtures []Fixture
	if err := c.get(ctx, path, params, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// QuizParams tune quiz generation. Zero-valued fields are omitted from the
// query entirely rather than sent as empty.
type QuizParams struct {
	Length    int
	NbAnswers int
	Distinct  *bool
	Shuffle   *bool
	Lang      string
}

func (p QuizParams) apply(params url.Values) {
	if p.Length > 0 {
		params.Set("length", strconv.Itoa(p.Length))
	}
	if p.NbAnswers > 0 {
		params.Set("nbAnswers", strconv.Itoa(p.NbAnswers))
	}
	if p.Distinct != nil {
		params.Set("distinct", boolFlag(*p.Distinct))
	}
	if p.Shuffle != nil {
		params.Set("shuffle", boolFlag(*p.Shuffle))
	}
	if p.Lang != "" {
		params.Set("lang", p.Lang)
	}
}

// boolFlag coerces booleans to the 1/0 the upstream API expects.
func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// QuizByFixture generates a quiz from a specific fixture.
func (c *Client) QuizByFixture(ctx context.Context, fixtureID int64, p QuizParams) (*Quiz, error) {
	params := url.Values{}
	params.Set("fixture", strconv.FormatInt(fixtureID, 10))
	p.apply(params)

	return c.getQuiz(ctx, "quiz", params)
}

// QuizByLatestFixture generates a quiz from a league's most recent fixture.
func (c *Client) QuizByLatestFixture(ctx context.Context, leagueID int64, p QuizParams) (*Quiz, error) {
	params := url.Values{}
	params.Set("league", strconv.FormatInt(leagueID, 10))
	p.apply(params)

	return c.getQuiz(ctx, "last", params)
}

func (c *Client) getQuiz(ctx context.Context, path string, params url.Values) (*Quiz, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, err
	}
	return decodeQuiz(raw)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build quiz api request: %w", err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Basic "+c.authToken)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("quiz api %q: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("quiz api %q: read body: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := string(body)
		if detail == "" {
			detail = resp.Status
		}
		return &APIError{Path: path, Status: resp.StatusCode, Body: detail}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("quiz api %q: decode response: %w", path, err)
	}
	return nil
}
