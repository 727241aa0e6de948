// Package research gathers best-effort web context for a market
// segment before analysis. It scrapes DuckDuckGo HTML search results
// and pulls Google News RSS headlines; every failure degrades to an
// empty contribution so research can never block a report.
package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/arqvlabs/arqv30/internal/analysis"
)

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client runs segment research against public web sources. It
// implements analysis.Researcher.
type Client struct {
	http        *http.Client
	cache       *Cache
	limiter     *RateLimiter
	feed        *gofeed.Parser
	searchBase  string
	newsBase    string
	maxPerQuery int
}

// Option configures the research client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSearchBaseURL overrides the DuckDuckGo endpoint.
func WithSearchBaseURL(u string) Option {
	return func(c *Client) { c.searchBase = u }
}

// WithNewsBaseURL overrides the Google News RSS endpoint.
func WithNewsBaseURL(u string) Option {
	return func(c *Client) { c.newsBase = u }
}

// WithMaxPerQuery caps findings collected per query.
func WithMaxPerQuery(n int) Option {
	return func(c *Client) { c.maxPerQuery = n }
}

// NewClient creates a research client with conservative rate limits.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		cache:       NewCache(30 * time.Minute),
		limiter:     NewRateLimiter(2, time.Second),
		feed:        gofeed.NewParser(),
		searchBase:  duckDuckGoBaseURL,
		newsBase:    googleNewsBaseURL,
		maxPerQuery: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Research collects findings for the segment from all sources
// concurrently. Failed sources contribute nothing.
func (c *Client) Research(ctx context.Context, segment string) []analysis.ResearchFinding {
	if segment == "" {
		return nil
	}

	cacheKey := "research:" + segment
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]analysis.ResearchFinding)
	}

	queries := BuildQueries(segment)

	results := make([][]analysis.ResearchFinding, len(queries)+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			findings, err := c.searchDuckDuckGo(gctx, q)
			if err != nil {
				return nil // best effort
			}
			results[i] = findings
			return nil
		})
	}
	g.Go(func() error {
		findings, err := c.newsHeadlines(gctx, segment)
		if err != nil {
			return nil
		}
		results[len(queries)] = findings
		return nil
	})

	_ = g.Wait()

	var all []analysis.ResearchFinding
	for _, r := range results {
		all = append(all, r...)
	}

	if len(all) > 0 {
		c.cache.Set(cacheKey, all)
	}
	return all
}

// BuildQueries returns the search queries issued for a segment.
func BuildQueries(segment string) []string {
	return []string{
		fmt.Sprintf("%s mercado brasileiro 2024 2025", segment),
		fmt.Sprintf("%s tendências consumo Brasil", segment),
		fmt.Sprintf("%s concorrentes principais Brasil", segment),
		fmt.Sprintf("%s público-alvo perfil consumidor", segment),
	}
}

// doGet performs a GET request, returning the response body. The
// caller is responsible for closing the returned ReadCloser.
func (c *Client) doGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "text/html, application/xml, */*")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}

// --- Simple in-memory cache ---

// CacheEntry holds a cached value with expiration.
type CacheEntry struct {
	Value     any
	ExpiresAt time.Time
}

// Cache is a simple thread-safe in-memory cache with TTL.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	ttl     time.Duration
}

// NewCache creates a new cache with the given default TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache. Returns nil, false if not
// found or expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

// Set stores a value in the cache with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = CacheEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Flush removes all entries from the cache.
func (c *Cache) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]CacheEntry)
	c.mu.Unlock()
}

// --- Rate limiter ---

// RateLimiter provides simple token-bucket rate limiting.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

// NewRateLimiter creates a rate limiter that allows maxTokens requests
// per refillRate duration.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refill()
		if rl.tokens > 0 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// refill adds tokens based on elapsed time. Must be called with mu held.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	if elapsed >= rl.refillRate {
		periods := int(elapsed / rl.refillRate)
		rl.tokens += periods
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefill = rl.lastRefill.Add(time.Duration(periods) * rl.refillRate)
	}
}
