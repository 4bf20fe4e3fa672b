package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Fetcher retrieves the descriptor of a project.
type Fetcher interface {
	FetchDescriptor(ctx context.Context, name string) (*Descriptor, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, name string) (*Descriptor, error)

// FetchDescriptor calls f.
func (f FetcherFunc) FetchDescriptor(ctx context.Context, name string) (*Descriptor, error) {
	return f(ctx, name)
}

// DefaultTimeout bounds a descriptor request when the client has none.
const DefaultTimeout = 10 * time.Second

// maxBody caps the descriptor response size.
const maxBody = 1 << 20

// Client fetches descriptors from a describe API over HTTP.
type Client struct {
	// APIURL is the describe endpoint, or the API base in Legacy mode.
	APIURL string
	// Legacy requests /rtfd/<name>/desc instead of the Action query.
	Legacy bool
	HTTP   *http.Client
}

// NewClient returns a client for apiURL with the given request timeout.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		APIURL: apiURL,
		HTTP:   &http.Client{Timeout: timeout},
	}
}

// RequestURL returns the URL requested for project name.
func (c *Client) RequestURL(name string) string {
	if c.Legacy {
		return strings.TrimSuffix(c.APIURL, "/") + "/rtfd/" + url.PathEscape(name) + "/desc"
	}
	sep := "?"
	if strings.Contains(c.APIURL, "?") {
		sep = "&"
	}
	return c.APIURL + sep + "Action=describeProject&name=" + url.QueryEscape(name)
}

// FetchDescriptor implements Fetcher.
func (c *Client) FetchDescriptor(ctx context.Context, name string) (*Descriptor, error) {
	start := time.Now()
	d, err := c.fetch(ctx, name)
	fetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		fetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	fetchesTotal.WithLabelValues("ok").Inc()
	return d, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(name), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting descriptor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("describe api returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !env.OK() {
		return nil, fmt.Errorf("%w: %s", ErrNotSuccessful, env.Message)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: no data", ErrMalformed)
	}
	return env.Data, nil
}

// CachedFetcher memoizes successful descriptor lookups for TTL.
type CachedFetcher struct {
	next Fetcher
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	d       *Descriptor
	expires time.Time
}

// NewCachedFetcher wraps next. A non-positive ttl disables caching.
func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// FetchDescriptor implements Fetcher.
func (c *CachedFetcher) FetchDescriptor(ctx context.Context, name string) (*Descriptor, error) {
	if c.ttl <= 0 {
		return c.next.FetchDescriptor(ctx, name)
	}

	c.mu.Lock()
	e, ok := c.entries[name]
	c.mu.Unlock()
	if ok && c.now().Before(e.expires) {
		return e.d, nil
	}

	d, err := c.next.FetchDescriptor(ctx, name)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[name] = cacheEntry{d: d, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return d, nil
}
