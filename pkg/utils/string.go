package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates str to maxWidth display columns, appending "..."
// when it was cut. Wide runes count as two columns.
func (s *StringHelper) TruncateString(str string, maxWidth int) string {
	return runewidth.Truncate(str, maxWidth, "...")
}

// Preview folds whitespace and truncates, for one-line log output.
func (s *StringHelper) Preview(str string, maxWidth int) string {
	return s.TruncateString(s.NormalizeWhitespace(str), maxWidth)
}

// PadRight pads str with spaces to width display columns.
func (s *StringHelper) PadRight(str string, width int) string {
	return runewidth.FillRight(str, width)
}
