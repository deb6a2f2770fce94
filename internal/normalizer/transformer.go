package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlockKind classifies a block of the intermediate document.
type BlockKind int

// Block kinds.
const (
	KindText BlockKind = iota
	KindHeading
	KindParagraph
)

// Block is one unit of the intermediate representation the rewrite passes
// operate on. Level is only meaningful for headings.
type Block struct {
	Text  string
	Kind  BlockKind
	Level int
}

// Pass is a pure rewrite step over the block list.
type Pass struct {
	Apply func([]Block) []Block
	Name  string
}

var (
	headingPattern  = regexp.MustCompile(`^[ \t]*(#{1,6})[ \t]*([^#\s].*?)\s*$`)
	emphasisPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)
	blankRunPattern = regexp.MustCompile(`\n[ \t]*\n\s*`)
	linkPattern     = regexp.MustCompile(`\[([^\[\]\n]+)\]\((https?://[^\s()]+)\)`)
)

// Transformer converts the Markdown-like dialect produced by the generation
// service into HTML by running an ordered list of passes.
type Transformer struct {
	passes []Pass
}

// NewTransformer creates a transformer with the standard pass order:
// headings, emphasis, paragraphs, links.
func NewTransformer() *Transformer {
	return &Transformer{
		passes: []Pass{
			{Name: "headings", Apply: convertHeadings},
			{Name: "emphasis", Apply: convertEmphasis},
			{Name: "paragraphs", Apply: segmentParagraphs},
			{Name: "links", Apply: convertLinks},
		},
	}
}

// Transform renders body as HTML. It never fails; malformed markup is left
// as literal text.
func (t *Transformer) Transform(body string) string {
	blocks := []Block{{Kind: KindText, Text: foldLineEndings(body)}}

	for _, p := range t.passes {
		blocks = p.Apply(blocks)
	}

	return Render(blocks)
}

// Normalize renders body with the standard transformer.
func Normalize(body string) string {
	return defaultTransformer.Transform(body)
}

var defaultTransformer = NewTransformer()

// Render serializes blocks. Each tag is written with its closing tag in the
// same call, so the output is always balanced.
func Render(blocks []Block) string {
	parts := make([]string, 0, len(blocks))

	for _, b := range blocks {
		switch b.Kind {
		case KindHeading:
			parts = append(parts, fmt.Sprintf("<h%d>%s</h%d>", b.Level, b.Text, b.Level))
		default:
			text := strings.TrimSpace(b.Text)
			if text == "" {
				continue
			}

			parts = append(parts, "<p>"+text+"</p>")
		}
	}

	return strings.Join(parts, "\n")
}

func foldLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// convertHeadings splits text blocks on heading lines. Text around a heading
// stays in its own block so a heading never ends up inside a paragraph.
func convertHeadings(blocks []Block) []Block {
	var out []Block

	for _, b := range blocks {
		if b.Kind != KindText {
			out = append(out, b)
			continue
		}

		var buf []string

		flush := func() {
			if len(buf) > 0 {
				out = append(out, Block{Kind: KindText, Text: strings.Join(buf, "\n")})
				buf = nil
			}
		}

		for _, line := range strings.Split(b.Text, "\n") {
			m := headingPattern.FindStringSubmatch(line)
			if m == nil {
				buf = append(buf, line)
				continue
			}

			flush()
			out = append(out, Block{
				Kind:  KindHeading,
				Level: len(m[1]),
				Text:  capitalizeHeading(strings.TrimSpace(m[2])),
			})
		}

		flush()
	}

	return out
}

// convertEmphasis rewrites **text** runs to <strong>. Matching is
// non-greedy and stays within one line.
func convertEmphasis(blocks []Block) []Block {
	return mapText(blocks, func(s string) string {
		return emphasisPattern.ReplaceAllString(s, "<strong>$1</strong>")
	})
}

// segmentParagraphs splits text blocks on blank-line runs.
func segmentParagraphs(blocks []Block) []Block {
	var out []Block

	for _, b := range blocks {
		if b.Kind != KindText {
			out = append(out, b)
			continue
		}

		for _, chunk := range blankRunPattern.Split(b.Text, -1) {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}

			out = append(out, Block{Kind: KindParagraph, Text: chunk})
		}
	}

	return out
}

// convertLinks rewrites [text](http...) to anchors. Other schemes stay
// literal, and so does a link whose text would cross a <strong> boundary.
func convertLinks(blocks []Block) []Block {
	return mapText(blocks, func(s string) string {
		return linkPattern.ReplaceAllStringFunc(s, func(match string) string {
			m := linkPattern.FindStringSubmatch(match)
			if !strongBalanced(m[1]) {
				return match
			}

			return `<a href="` + m[2] + `">` + m[1] + `</a>`
		})
	})
}

// strongBalanced reports whether every <strong> in s is closed inside s.
func strongBalanced(s string) bool {
	depth := 0

	for s != "" {
		open := strings.Index(s, "<strong>")
		closing := strings.Index(s, "</strong>")

		switch {
		case open < 0 && closing < 0:
			return depth == 0
		case closing < 0 || (open >= 0 && open < closing):
			depth++
			s = s[open+len("<strong>"):]
		default:
			depth--
			if depth < 0 {
				return false
			}

			s = s[closing+len("</strong>"):]
		}
	}

	return depth == 0
}

func mapText(blocks []Block, fn func(string) string) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b.Text = fn(b.Text)
		out[i] = b
	}

	return out
}

// capitalizeHeading applies CapitalizeFirst casing to the visible text of a
// heading. Link targets keep their case, and leading ** or [ markup is
// skipped when placing the capital.
func capitalizeHeading(s string) string {
	var sb strings.Builder

	started := false

	visible := func(text string) {
		for _, r := range text {
			switch {
			case !started && (r == '*' || r == '['):
				sb.WriteRune(r)
			case !started:
				sb.WriteRune(unicode.ToUpper(r))
				started = true
			default:
				sb.WriteRune(unicode.ToLower(r))
			}
		}
	}

	last := 0

	for _, m := range linkPattern.FindAllStringSubmatchIndex(s, -1) {
		visible(s[last:m[3]])
		sb.WriteString(s[m[3]:m[1]])
		last = m[1]
	}

	visible(s[last:])

	return sb.String()
}

// CapitalizeFirst uppercases the first rune and lowercases the rest.
// Applying it twice gives the same result as applying it once.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
