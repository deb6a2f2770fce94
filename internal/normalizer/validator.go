package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Title validation errors.
var (
	ErrInvalidTitle   = errors.New("invalid title")
	ErrTitleTooShort  = fmt.Errorf("%w: too short", ErrInvalidTitle)
	ErrTitleNoLetters = fmt.Errorf("%w: no alphabetic character", ErrInvalidTitle)
)

// DefaultMinTitleLength is the shortest title accepted when no other value is configured.
const DefaultMinTitleLength = 10

var (
	headingMarkerPattern = regexp.MustCompile(`^#{1,6}[ \t]*`)
	noisePrefixPattern   = regexp.MustCompile(`^[\p{L}\p{N}]+:`)
)

// ExtractTitle cleans a candidate title line: heading markers and a leading
// label such as "H2:" or "Título:" are stripped, wrapping emphasis and quotes
// removed and casing normalized to a single leading capital. Cleaning repeats
// until nothing changes, so a label inside a wrapper is removed as well.
func ExtractTitle(firstLine string) string {
	title := strings.TrimSpace(firstLine)

	for {
		cleaned := cleanTitle(title)
		if cleaned == title {
			break
		}

		title = cleaned
	}

	return CapitalizeFirst(title)
}

// cleanTitle runs one cleaning round. Every change shortens s.
func cleanTitle(s string) string {
	s = headingMarkerPattern.ReplaceAllString(s, "")
	s = unwrap(strings.TrimSpace(s))
	s = noisePrefixPattern.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}

func unwrap(s string) string {
	for _, pair := range [][2]string{{"**", "**"}, {`"`, `"`}, {"«", "»"}, {"“", "”"}} {
		if len(s) > len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}

	return s
}

// Validator decides whether a cleaned title is usable.
type Validator struct {
	minLength int
}

// NewValidator creates a new validator. A non-positive minLength falls back
// to DefaultMinTitleLength.
func NewValidator(minLength int) *Validator {
	if minLength <= 0 {
		minLength = DefaultMinTitleLength
	}

	return &Validator{minLength: minLength}
}

// Check returns nil for a usable title, or the reason it was rejected.
func (v *Validator) Check(title string) error {
	title = strings.TrimSpace(title)

	if utf8.RuneCountInString(title) < v.minLength {
		return fmt.Errorf("%w (%d < %d characters)", ErrTitleTooShort, utf8.RuneCountInString(title), v.minLength)
	}

	if !strings.ContainsFunc(title, unicode.IsLetter) {
		return ErrTitleNoLetters
	}

	return nil
}

// IsValid reports whether title passes Check.
func (v *Validator) IsValid(title string) bool {
	return v.Check(title) == nil
}
