package generator

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"
)

//go:embed prompts/article.md
var defaultPromptTemplate string

// PromptData is the input to the user prompt template.
type PromptData struct {
	Title     string
	Reference string
}

// Prompt renders the user message sent with every generation request.
type Prompt struct {
	tmpl     *template.Template
	maxChars int
}

// NewPrompt parses the template at path, or the embedded template when path
// is empty. Reference text longer than maxChars runes is cut; zero means no
// limit.
func NewPrompt(path string, maxChars int) (*Prompt, error) {
	text := defaultPromptTemplate

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template: %w", err)
		}

		text = string(data)
	}

	tmpl, err := template.New("article").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &Prompt{tmpl: tmpl, maxChars: maxChars}, nil
}

// Render executes the template for one article.
func (p *Prompt) Render(title, reference string) (string, error) {
	var buf bytes.Buffer

	data := PromptData{
		Title:     strings.TrimSpace(title),
		Reference: truncateRunes(strings.TrimSpace(reference), p.maxChars),
	}

	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

func truncateRunes(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}

	return string([]rune(s)[:maxChars])
}
