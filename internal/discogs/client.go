package discogs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the production Discogs API endpoint.
	DefaultBaseURL = "https://api.discogs.com"

	// userAgent identifies this service to the Discogs API, which rejects
	// anonymous user agents.
	userAgent = "Discogs Reconciliation Service/1.0 +https://github.com/rybesh/discogsreconciliation"

	// searchPath is the database search endpoint.
	searchPath = "/database/search"

	// minRequestInterval is the spacing enforced between consecutive
	// requests regardless of the advertised rate-limit budget.
	minRequestInterval = time.Second

	// defaultBudget is assumed until response headers say otherwise.
	defaultBudget = 60
)

// Client talks to the Discogs API. Requests are serialized and paced; the
// zero value is unusable, construct with NewClient.
type Client struct {
	http *resty.Client
	log  *slog.Logger

	// mu serializes requests so pacing state stays consistent. The Discogs
	// rate limit is per token, so parallel requests would not help anyway.
	mu          sync.Mutex
	lastRequest time.Time
	remaining   int           // advertised remaining request budget
	resetWait   time.Duration // advertised wait until the budget resets

	// sleep and now are replaced in tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API endpoint. Used by tests;
// panics if u is empty.
func WithBaseURL(u string) ClientOption {
	if u == "" {
		panic("discogs: base URL must not be empty")
	}
	return func(c *Client) {
		c.http.SetBaseURL(u)
	}
}

// WithLogger sets the client logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient builds a Client authenticating with the given personal token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		remaining: defaultBudget,
		resetWait: defaultBudget * time.Second,
		sleep:     time.Sleep,
		now:       time.Now,
		log:       slog.Default().With("component", "discogs"),
	}

	c.http = resty.New().
		SetBaseURL(DefaultBaseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Authorization", "Discogs token="+token).
		SetQueryParam("token", token).
		SetRetryCount(1).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r != nil && r.StatusCode() == http.StatusTooManyRequests
		}).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			wait := time.Duration(headerInt(resp, "Retry-After", defaultBudget)) * time.Second
			c.log.Warn("rate limit exceeded, backing off", "wait", wait)
			return wait, nil
		})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries the Discogs database for entities of the given type
// ("master", "release", "artist").
func (c *Client) Search(ctx context.Context, query, entityType string) (*SearchResponse, error) {
	var out SearchResponse
	err := c.get(ctx, searchPath, map[string]string{"q": query, "type": entityType}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Resource fetches detail data for one entity, e.g. /releases/123.
func (c *Client) Resource(ctx context.Context, entityType, id string) (*Resource, error) {
	var out Resource
	if err := c.get(ctx, fmt.Sprintf("/%ss/%s", entityType, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get performs one paced API request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.throttle()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		Get(path)
	c.lastRequest = c.now()
	if err != nil {
		return fmt.Errorf("discogs: GET %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("discogs: GET %s: %s", path, resp.Status())
	}

	c.remaining = headerInt(resp, "X-Discogs-Ratelimit-Remaining", defaultBudget)
	c.resetWait = time.Duration(headerInt(resp, "X-Discogs-Ratelimit-Reset", defaultBudget)) * time.Second
	c.log.Debug("rate limit state", "remaining", c.remaining, "reset", c.resetWait)

	return nil
}

// throttle blocks until the next request is allowed: waits out the reset
// window when the budget is exhausted, then enforces the minimum spacing
// since the previous request. Called with mu held.
func (c *Client) throttle() {
	if c.remaining <= 0 {
		c.log.Debug("rate limit budget exhausted, sleeping", "wait", c.resetWait)
		c.sleep(c.resetWait)
		c.remaining = defaultBudget
	}
	if elapsed := c.now().Sub(c.lastRequest); elapsed < minRequestInterval && !c.lastRequest.IsZero() {
		c.sleep(minRequestInterval - elapsed)
	}
}

// headerInt reads an integer header from resp, falling back to def when
// missing or malformed.
func headerInt(resp *resty.Response, name string, def int) int {
	if resp == nil {
		return def
	}
	v, err := strconv.Atoi(resp.Header().Get(name))
	if err != nil {
		return def
	}
	return v
}
