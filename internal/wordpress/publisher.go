package wordpress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"seopress/internal/config"
	"seopress/internal/logger"
	"seopress/internal/models"
	"seopress/pkg/utils"
)

// ErrImageDownload indicates the featured image could not be fetched.
var ErrImageDownload = errors.New("image download failed")

const (
	defaultImageName  = "imagen.jpg"
	maxImageSizeBytes = 20 * 1024 * 1024
)

// Publisher uploads featured images and creates posts. It never returns an
// error to the caller: failures become log entries and a failed PublishResult.
type Publisher struct {
	client     Client
	httpClient *http.Client
	logger     *logger.Logger
	helper     *utils.HTTPHelper
	cfg        config.CMSConfig
	maxImage   int64
}

// NewPublisher creates a publisher backed by the WordPress REST API.
func NewPublisher(cfg config.CMSConfig, log *logger.Logger) *Publisher {
	return NewPublisherWithClient(NewRESTClient(cfg, log), cfg, log)
}

// NewPublisherWithClient creates a publisher with a custom client (useful for testing).
func NewPublisherWithClient(client Client, cfg config.CMSConfig, log *logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger:   log,
		helper:   utils.NewHTTPHelper(),
		cfg:      cfg,
		maxImage: maxImageSizeBytes,
	}
}

// UploadImage downloads imageURL and uploads it as media. It returns the
// media id and true on success, or (0, false) after logging the failure.
func (p *Publisher) UploadImage(ctx context.Context, imageURL string) (int, bool) {
	if imageURL == "" {
		return 0, false
	}

	data, contentType, err := p.downloadImage(ctx, imageURL)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("Could not download image %s: %v", imageURL, err))
		return 0, false
	}

	filename := p.helper.FileNameFromURL(imageURL, defaultImageName)
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(filename))
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id, err := p.client.UploadMedia(ctx, filename, contentType, data)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("Could not upload image %s: %v", imageURL, err))
		return 0, false
	}

	p.logger.Info(fmt.Sprintf("Image uploaded: id=%d, file=%s", id, filename))

	return id, true
}

// Publish creates a post for article. imageID zero means no featured image.
func (p *Publisher) Publish(ctx context.Context, article models.NormalizedArticle, imageID int) models.PublishResult {
	post, err := p.client.CreatePost(ctx, PostRequest{
		Title:         article.Title,
		Content:       article.HTMLBody,
		Status:        p.cfg.Status,
		Categories:    p.cfg.Categories,
		FeaturedMedia: imageID,
	})
	if err != nil {
		reason := err.Error()

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			reason = apiErr.Body
		}

		p.logger.Error(fmt.Sprintf("Publish failed for %q: %s", article.Title, reason))

		return models.PublishResult{Status: models.PublishStatusFailed, Reason: reason}
	}

	p.logger.Info(fmt.Sprintf("Published: id=%d, link=%s", post.ID, post.Link))

	return models.PublishResult{
		Status: models.PublishStatusPublished,
		PostID: post.ID,
		Link:   post.Link,
	}
}

// downloadImage returns the image bytes and the media type reported by the
// server, if it is an image type.
func (p *Publisher) downloadImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrImageDownload, err)
	}

	req.Header = p.helper.BuildHeaders(map[string]string{"Accept": "image/*"})

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrImageDownload, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", fmt.Errorf("%w: status %d", ErrImageDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxImage+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrImageDownload, err)
	}

	if int64(len(data)) > p.maxImage {
		return nil, "", fmt.Errorf("%w: image exceeds %d bytes", ErrImageDownload, p.maxImage)
	}

	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty body", ErrImageDownload)
	}

	contentType := ""
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && strings.HasPrefix(mediaType, "image/") {
		contentType = mediaType
	}

	return data, contentType, nil
}
