// Package footballdata is a client for the football-data.org v4 match feed.
package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/partidos/internal/domain/match"
	"github.com/okian/partidos/pkg/logger"
	"github.com/okian/partidos/pkg/metrics"
)

// DefaultBaseURL is the public v4 endpoint.
const DefaultBaseURL = "https://api.football-data.org/v4/"

const (
	authHeader     = "X-Auth-Token"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Sentinel errors.
var (
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	ErrDecode         = errors.New("decode match feed")
	ErrMissingToken   = errors.New("missing api token")
)

// Client fetches matches for a competition and season.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. A trailing slash is added if missing.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			if !strings.HasSuffix(u, "/") {
				u += "/"
			}
			c.baseURL = u
		}
	}
}

// WithToken sets the API token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// feed mirrors the parts of the v4 matches response we read.
type feed struct {
	Matches []struct {
		UTCDate  string `json:"utcDate"`
		Status   string `json:"status"`
		HomeTeam struct {
			Name string `json:"name"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"awayTeam"`
		Score struct {
			FullTime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"fullTime"`
		} `json:"score"`
	} `json:"matches"`
}

// Matches returns at most limit matches of competition in season, in feed
// order. Unplayed matches come back with nil goals.
func (c *Client) Matches(ctx context.Context, competition string, season, limit int) ([]match.Match, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	q := url.Values{}
	q.Set("season", strconv.Itoa(season))
	q.Set("limit", strconv.Itoa(limit))
	endpoint := c.baseURL + "competitions/" + url.PathEscape(competition) + "/matches?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(authHeader, c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFetchError("transport")
		return nil, fmt.Errorf("get %s: %w", competition, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordFetchError("status")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %d: %s", ErrUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var f feed
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		metrics.RecordFetchError("decode")
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	raw := f.Matches
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}
	out := make([]match.Match, 0, len(raw))
	for _, m := range raw {
		mm := match.Match{
			HomeTeam:  m.HomeTeam.Name,
			AwayTeam:  m.AwayTeam.Name,
			HomeGoals: m.Score.FullTime.Home,
			AwayGoals: m.Score.FullTime.Away,
		}
		if m.UTCDate != "" {
			d, err := time.Parse(time.RFC3339, m.UTCDate)
			if err != nil {
				metrics.RecordFetchError("decode")
				return nil, fmt.Errorf("%w: utcDate %q: %w", ErrDecode, m.UTCDate, err)
			}
			mm.Date = d
		}
		out = append(out, mm)
	}

	elapsed := time.Since(start)
	metrics.RecordFetch(len(out), float64(elapsed.Milliseconds()))
	if c.log != nil {
		c.log.Info(ctx, "matches fetched",
			logger.String("competition", competition),
			logger.Int("season", season),
			logger.Int("matches", len(out)),
			logger.Duration("elapsed", elapsed),
		)
	}
	return out, nil
}
