package crawler

import (
	"context"
	"fmt"

	"seopress/internal/config"
	"seopress/internal/models"
)

// Client fetches source pages and turns them into SourceArticles.
type Client struct {
	scraper   *Scraper
	extractor *Extractor
}

// NewClient creates a new crawler client with default dependencies.
func NewClient() *Client {
	return &Client{
		scraper:   NewScraper(),
		extractor: NewExtractor(""),
	}
}

// NewClientFromConfig creates a client using the source and title settings.
func NewClientFromConfig(cfg *config.Config) *Client {
	return NewClientWithDeps(
		NewScraperWithConfig(&cfg.Source),
		NewExtractor(cfg.Title.Placeholder),
	)
}

// NewClientWithDeps creates a new crawler client with injected dependencies.
func NewClientWithDeps(scraper *Scraper, extractor *Extractor) *Client {
	return &Client{
		scraper:   scraper,
		extractor: extractor,
	}
}

// Fetch downloads url and extracts its article.
func (c *Client) Fetch(ctx context.Context, url string) (*models.SourceArticle, error) {
	content, err := c.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape URL: %w", err)
	}

	article, err := c.extractor.Extract(url, content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	return article, nil
}
