// Package wordpress publishes normalized articles to a WordPress site through
// its REST API.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"seopress/internal/config"
	"seopress/internal/logger"
	"seopress/pkg/utils"
)

// ErrNoID is returned when a create call succeeds without returning an id.
var ErrNoID = errors.New("no id in response")

// APIError reports a non-2xx answer from the CMS. Body is the raw response,
// kept so the failure reason can be logged verbatim.
type APIError struct {
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cms returned status %d: %s", e.StatusCode, e.Body)
}

// Client defines the CMS operations the publisher needs.
type Client interface {
	UploadMedia(ctx context.Context, filename, contentType string, data []byte) (int, error)
	CreatePost(ctx context.Context, post PostRequest) (*Post, error)
}

// Ensure RESTClient implements Client.
var _ Client = (*RESTClient)(nil)

// RESTClient talks to {base_url}/wp-json/wp/v2 with Basic authentication.
type RESTClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	apiBase    string
	username   string
	password   string
}

// NewRESTClient creates a client from the CMS settings.
func NewRESTClient(cfg config.CMSConfig, log *logger.Logger) *RESTClient {
	return &RESTClient{
		apiBase:  cfg.APIBase(),
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: log,
	}
}

// UploadMedia uploads raw file bytes and returns the media id.
func (c *RESTClient) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (int, error) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})

	body, err := c.do(ctx, "/media", bytes.NewReader(data), map[string]string{
		"Content-Type":        contentType,
		"Content-Disposition": disposition,
	})
	if err != nil {
		return 0, err
	}

	var media Media
	if err := json.Unmarshal(body, &media); err != nil {
		return 0, fmt.Errorf("failed to parse media response: %w", err)
	}

	if media.ID == 0 {
		return 0, fmt.Errorf("media upload: %w", ErrNoID)
	}

	return media.ID, nil
}

// CreatePost creates a post and returns its id and link.
func (c *RESTClient) CreatePost(ctx context.Context, post PostRequest) (*Post, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}

	body, err := c.do(ctx, "/posts", bytes.NewReader(payload), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var created Post
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse post response: %w", err)
	}

	if created.ID == 0 {
		return nil, fmt.Errorf("create post: %w", ErrNoID)
	}

	return &created, nil
}

func (c *RESTClient) do(ctx context.Context, path string, payload io.Reader, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = utils.NewHTTPHelper().BuildHeaders(headers)
	req.SetBasicAuth(c.username, c.password)

	if c.logger != nil {
		c.logger.Debug(fmt.Sprintf("POST %s", c.apiBase+path))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	// Limit response size to 10MB
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
