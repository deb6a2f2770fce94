package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"seopress/pkg/utils"
)

// RejectedLine is a URL list entry that is not an absolute http(s) URL.
type RejectedLine struct {
	Text string
	Line int
}

// URLList is the parsed content of a URL list.
type URLList struct {
	URLs     []string
	Rejected []RejectedLine
}

// LoadURLs reads a newline-delimited URL list. Lines are trimmed; blank lines
// and lines starting with # are ignored. Order is preserved.
func LoadURLs(path string) (*URLList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	return ParseURLs(f)
}

// ParseURLs reads a URL list from r with the same rules as LoadURLs. Lines
// that are not absolute http or https URLs are collected in Rejected.
func ParseURLs(r io.Reader) (*URLList, error) {
	helper := utils.NewHTTPHelper()
	list := &URLList{}

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !helper.IsValidURL(line) {
			list.Rejected = append(list.Rejected, RejectedLine{Line: n, Text: line})
			continue
		}

		list.URLs = append(list.URLs, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	return list, nil
}
