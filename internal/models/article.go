// Package models defines data structures shared by the pipeline stages.
package models

// SourceArticle is the original page as extracted by the crawler.
type SourceArticle struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// HasImage reports whether the source page carried an image.
func (s *SourceArticle) HasImage() bool {
	return s.ImageURL != ""
}

// GeneratedText is the unstructured text returned by the generation service.
// The first line is conventionally the title.
type GeneratedText struct {
	Raw string `json:"raw"`
}

// NormalizedArticle is the cleaned title and HTML body ready for publishing.
type NormalizedArticle struct {
	Title           string `json:"title"`
	HTMLBody        string `json:"htmlBody"`
	TitleFallback   bool   `json:"titleFallback"`
	ContentFallback bool   `json:"contentFallback"`
}
