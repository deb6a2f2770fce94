package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seopress/internal/models"
	"seopress/pkg/utils"
)

// Extractor pulls the title, paragraph text and first image out of a page.
type Extractor struct {
	text        *utils.StringHelper
	placeholder string
}

// NewExtractor creates an extractor. placeholder is used when the page has no
// usable <h1>.
func NewExtractor(placeholder string) *Extractor {
	if placeholder == "" {
		placeholder = "Sin título"
	}

	return &Extractor{
		text:        utils.NewStringHelper(),
		placeholder: placeholder,
	}
}

// Extract parses html fetched from pageURL. A page without an image is not an
// error; ImageURL is left empty.
func (e *Extractor) Extract(pageURL, html string) (*models.SourceArticle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := e.text.NormalizeWhitespace(doc.Find("h1").First().Text())
	if title == "" {
		title = e.placeholder
	}

	var paragraphs []string

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := e.text.NormalizeWhitespace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	article := &models.SourceArticle{
		URL:   pageURL,
		Title: title,
		Body:  strings.Join(paragraphs, " "),
	}

	if src, ok := doc.Find("img[src]").First().Attr("src"); ok {
		article.ImageURL = resolveURL(pageURL, src)
	}

	return article, nil
}

// resolveURL makes ref absolute against base. Unparseable input is returned
// trimmed as is.
func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}
