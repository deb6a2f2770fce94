package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"seopress/internal/config"
	"seopress/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// HTTPError reports a non-2xx response from a source page.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %d for %s", ErrUnexpectedStatusCode, e.StatusCode, e.URL)
}

// Unwrap lets errors.Is match ErrUnexpectedStatusCode.
func (e *HTTPError) Unwrap() error {
	return ErrUnexpectedStatusCode
}

// Scraper fetches source pages. Each fetch is a single attempt.
type Scraper struct {
	client       *http.Client
	headers      http.Header
	bufferSizeKb int
}

// NewScraper creates a new scraper instance with default config.
func NewScraper() *Scraper {
	return NewScraperWithConfig(&config.Default().Source)
}

// NewScraperWithConfig creates a scraper with the given timeout, User-Agent
// and body limit.
func NewScraperWithConfig(cfg *config.SourceConfig) *Scraper {
	headers := utils.NewHTTPHelper().BuildHeaders(map[string]string{
		"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})

	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}

	return &Scraper{
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		headers:      headers,
		bufferSizeKb: cfg.MaxBodyKb,
	}
}

// ScrapeWithMetrics returns (content, statusCode, duration, error).
func (s *Scraper) ScrapeWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, time.Since(startTime), fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.Clone()

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, time.Since(startTime), fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", resp.StatusCode, time.Since(startTime), &HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	// bufferSizeKb is in KB, convert to bytes
	limit := int64(s.bufferSizeKb) * 1024
	reader := io.LimitReader(resp.Body, limit)

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", resp.StatusCode, time.Since(startTime), fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, time.Since(startTime), nil
}

// Scrape fetches and returns content from the given URL.
func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	content, _, _, err := s.ScrapeWithMetrics(ctx, url)

	return content, err
}
