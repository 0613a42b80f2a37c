// Package scraper reads public YouTube pages the way a browser would.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.youtube.com"

// maxBody caps page downloads; watch pages are around 1-2 MiB.
const maxBody = 8 << 20

type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	retry     RetryConfig
	userAgent string
	baseURL   string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option { return func(s *Client) { s.http = c } }
func WithBaseURL(u string) Option         { return func(s *Client) { s.baseURL = u } }
func WithRetry(rc RetryConfig) Option     { return func(s *Client) { s.retry = rc } }

// NewClient allows rps requests per second with a burst of one.
func NewClient(userAgent string, rps float64, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		retry:     DefaultRetryConfig,
		userAgent: userAgent,
		baseURL:   defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url, retrying 429/5xx and network failures.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return RetryDo(ctx, c.retry, func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Cookie", "CONSENT=YES+cb")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", url, err)
		}
		return body, nil
	})
}
