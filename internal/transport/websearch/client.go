package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain"
	"github.com/kailas-cloud/filerec/internal/metrics"
)

const (
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	// maxReadSize caps the response size (2MB); search result pages are far smaller.
	maxReadSize = int64(2 * 1024 * 1024)
)

// Config holds live image search settings.
type Config struct {
	BaseURL       string
	NavTimeout    time.Duration
	SettleTimeout time.Duration
	Logger        *zap.Logger
}

// Client performs live image searches against an HTML image search endpoint.
// One Client holds one browsing session (cookies, connections); Reset discards
// the session, which is the recovery step between retry attempts.
type Client struct {
	baseURL       string
	navTimeout    time.Duration
	settleTimeout time.Duration
	http          *http.Client
	logger        *zap.Logger
}

// NewClient creates a live image search client.
func NewClient(cfg *Config) *Client {
	c := &Client{
		baseURL:       cfg.BaseURL,
		navTimeout:    cfg.NavTimeout,
		settleTimeout: cfg.SettleTimeout,
		logger:        cfg.Logger,
	}
	c.Reset()
	return c
}

// Reset discards the current session and starts a fresh one: new cookie jar,
// new connection pool.
func (c *Client) Reset() {
	jar, _ := cookiejar.New(nil)
	c.http = &http.Client{
		Jar: jar,
		Transport: &http.Transport{
			// Navigation: response headers must arrive within the nav timeout.
			ResponseHeaderTimeout: c.navTimeout,
		},
	}
}

// Search runs one bounded search attempt and returns up to maxResults
// descriptors. The attempt as a whole is limited to nav+settle; past the
// navigation deadline the remaining budget covers body download and parsing.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.ImageDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, c.navTimeout+c.settleTimeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(err)
		return nil, fmt.Errorf("image search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ImageSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("image search %q: status %d: %w",
			query, resp.StatusCode, domain.ErrImageSearchUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadSize))
	if err != nil {
		c.observe(err)
		return nil, fmt.Errorf("read search results %q: %w", query, err)
	}

	descriptors, err := parseResults(body, maxResults)
	if err != nil {
		metrics.ImageSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parse search results %q: %w", query, err)
	}

	metrics.ImageSearchRequestsTotal.WithLabelValues("success").Inc()
	metrics.ImageSearchDuration.Observe(time.Since(start).Seconds())

	c.logger.Debug("live image search completed",
		zap.String("query", query),
		zap.Int("results", len(descriptors)),
		zap.Duration("latency", time.Since(start)),
	)
	return descriptors, nil
}

func (c *Client) observe(err error) {
	if domain.IsTimeout(err) {
		metrics.ImageSearchRequestsTotal.WithLabelValues("timeout").Inc()
	} else {
		metrics.ImageSearchRequestsTotal.WithLabelValues("error").Inc()
	}
}
