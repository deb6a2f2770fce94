// Package archive keeps a local Markdown copy of every published article.
package archive

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"

	"seopress/internal/models"
)

// FallbackSlug names files whose title produces no usable slug.
const FallbackSlug = "articulo"

const frontMatterDelimiter = "---\n"

// ErrNoFrontMatter is returned by Read for files without a front matter block.
var ErrNoFrontMatter = errors.New("no front matter")

// FrontMatter is the YAML header written above each archived body.
type FrontMatter struct {
	Published       time.Time `yaml:"published"`
	Title           string    `yaml:"title"`
	Source          string    `yaml:"source"`
	Link            string    `yaml:"link,omitempty"`
	Hash            string    `yaml:"hash"`
	PostID          int       `yaml:"post_id"`
	TitleFallback   bool      `yaml:"title_fallback"`
	ContentFallback bool      `yaml:"content_fallback"`
}

// Writer stores articles under {dir}/{YYYY}/{MM}/{slug}.md.
type Writer struct {
	converter *md.Converter
	now       func() time.Time
	dir       string
}

// NewWriter creates an archive rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:       dir,
		converter: md.NewConverter("", true, nil),
		now:       time.Now,
	}
}

// Save writes the article and returns the file path. An existing file with
// the same slug is replaced only when it archives the same post; otherwise
// the post id is appended to the name.
func (w *Writer) Save(src models.SourceArticle, article models.NormalizedArticle, result models.PublishResult) (string, error) {
	published := w.now()

	body, err := w.converter.ConvertString(article.HTMLBody)
	if err != nil {
		return "", fmt.Errorf("failed to convert body to markdown: %w", err)
	}

	fm := FrontMatter{
		Title:           article.Title,
		Source:          src.URL,
		PostID:          result.PostID,
		Link:            result.Link,
		Published:       published.UTC().Truncate(time.Second),
		TitleFallback:   article.TitleFallback,
		ContentFallback: article.ContentFallback,
		Hash:            ContentHash(article.HTMLBody),
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}

	dir := filepath.Join(w.dir, published.Format("2006"), published.Format("01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := w.uniquePath(dir, Slug(article.Title), result.PostID)

	var buf bytes.Buffer

	buf.WriteString(frontMatterDelimiter)
	buf.Write(header)
	buf.WriteString(frontMatterDelimiter)
	buf.WriteString("\n")
	buf.WriteString(strings.TrimSpace(body))
	buf.WriteString("\n")

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	return path, nil
}

func (w *Writer) uniquePath(dir, name string, postID int) string {
	path := filepath.Join(dir, name+".md")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}

	if fm, _, err := Read(path); err == nil && postID != 0 && fm.PostID == postID {
		return path
	}

	return filepath.Join(dir, name+"-"+strconv.Itoa(postID)+".md")
}

// Read parses an archived file back into its front matter and Markdown body.
func Read(path string) (*FrontMatter, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read archive file: %w", err)
	}

	rest, ok := strings.CutPrefix(string(data), frontMatterDelimiter)
	if !ok {
		return nil, "", ErrNoFrontMatter
	}

	header, body, ok := strings.Cut(rest, "\n"+frontMatterDelimiter)
	if !ok {
		return nil, "", ErrNoFrontMatter
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, "", fmt.Errorf("failed to parse front matter: %w", err)
	}

	return &fm, strings.TrimSpace(body), nil
}

// Slug returns the file name stem for title.
func Slug(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		return FallbackSlug
	}

	return normalized
}

// ContentHash returns the hex sha256 of the published HTML body.
func ContentHash(html string) string {
	sum := sha256.Sum256([]byte(html))

	return hex.EncodeToString(sum[:])
}
