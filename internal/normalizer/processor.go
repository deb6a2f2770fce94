// Package normalizer turns generated text into a publishable title and HTML
// body, falling back to the source article when the generated output is
// unusable.
package normalizer

import (
	"strings"

	"seopress/internal/models"
)

// Options configures the Processor.
type Options struct {
	// Placeholder is used when neither the generated nor the source title is usable.
	Placeholder string
	// MinTitleLength is the validity threshold for titles.
	MinTitleLength int
	// IncludeTitleHeadingInBody re-inserts the title as a leading <h1> in the body.
	IncludeTitleHeadingInBody bool
}

// Processor handles title extraction and body transformation.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	opts        Options
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts Options) *Processor {
	if opts.Placeholder == "" {
		opts.Placeholder = "Sin título"
	}

	return &Processor{
		validator:   NewValidator(opts.MinTitleLength),
		transformer: NewTransformer(),
		opts:        opts,
	}
}

// Validator returns the title validator in use.
func (p *Processor) Validator() *Validator {
	return p.validator
}

// Process derives the normalized article. A nil or blank gen means generation
// failed and the source content is used as is.
func (p *Processor) Process(src models.SourceArticle, gen *models.GeneratedText) models.NormalizedArticle {
	if gen == nil || strings.TrimSpace(gen.Raw) == "" {
		return models.NormalizedArticle{
			Title:           p.SourceTitle(src),
			HTMLBody:        p.renderBody(p.SourceTitle(src), src.Body),
			TitleFallback:   true,
			ContentFallback: true,
		}
	}

	firstLine, body := SplitTitle(gen.Raw)

	article := models.NormalizedArticle{Title: ExtractTitle(firstLine)}
	if !p.validator.IsValid(article.Title) {
		article.Title = p.SourceTitle(src)
		article.TitleFallback = true
	}

	article.HTMLBody = p.renderBody(article.Title, body)

	return article
}

// SourceTitle returns the cleaned source title, or the placeholder when the
// source title cleans to nothing.
func (p *Processor) SourceTitle(src models.SourceArticle) string {
	if title := ExtractTitle(src.Title); title != "" {
		return title
	}

	return p.opts.Placeholder
}

func (p *Processor) renderBody(title, body string) string {
	blocks := []Block{{Kind: KindText, Text: foldLineEndings(body)}}
	for _, pass := range p.transformer.passes {
		blocks = pass.Apply(blocks)
	}

	if p.opts.IncludeTitleHeadingInBody {
		blocks = append([]Block{{Kind: KindHeading, Level: 1, Text: title}}, dropLeadingTitle(blocks, title)...)
	} else {
		blocks = dropLeadingTitle(blocks, title)
	}

	return Render(blocks)
}

// dropLeadingTitle removes a first heading that repeats the title.
func dropLeadingTitle(blocks []Block, title string) []Block {
	if len(blocks) == 0 || blocks[0].Kind != KindHeading {
		return blocks
	}

	if strings.EqualFold(strings.TrimSpace(blocks[0].Text), strings.TrimSpace(title)) {
		return blocks[1:]
	}

	return blocks
}

// SplitTitle returns the first non-blank line of raw and the text after it.
func SplitTitle(raw string) (string, string) {
	raw = strings.TrimLeft(foldLineEndings(raw), " \t\n")

	first, rest, _ := strings.Cut(raw, "\n")

	return strings.TrimSpace(first), rest
}
