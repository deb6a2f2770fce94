package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"seopress/internal/models"
	"seopress/pkg/utils"
)

const (
	summaryTitleWidth  = 40
	summaryDetailWidth = 50
)

// BatchReport collects the results of one Run.
type BatchReport struct {
	Started     time.Time
	RunID       string
	Items       []models.ItemResult
	Total       int
	Duration    time.Duration
	Interrupted bool
}

// Count returns the number of items with the given status.
func (b *BatchReport) Count(status models.ItemStatus) int {
	n := 0

	for _, item := range b.Items {
		if item.Status == status {
			n++
		}
	}

	return n
}

// NotStarted returns how many URLs were left unprocessed by an interrupt.
func (b *BatchReport) NotStarted() int {
	return b.Total - len(b.Items)
}

// WriteSummary prints a fixed-width table of the batch. Column widths are
// measured in display cells so accented and wide titles stay aligned.
func (b *BatchReport) WriteSummary(w io.Writer) error {
	text := utils.NewStringHelper()

	var sb strings.Builder

	rule := strings.Repeat("-", 4+2+10+2+summaryTitleWidth+2+summaryDetailWidth)

	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "📊 Batch %s\n", b.RunID)
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "%-4s  %-10s  %s  %s\n", "#", "STATUS", text.PadRight("TITLE", summaryTitleWidth), "LINK / REASON")

	for i, item := range b.Items {
		title := ""
		if item.Article != nil {
			title = item.Article.Title
		}

		detail := item.Link
		if item.Status != models.ItemPublished {
			detail = fmt.Sprintf("[%s] %s", item.FailedStage, text.NormalizeWhitespace(item.Reason))
		}

		fmt.Fprintf(&sb, "%-4d  %-10s  %s  %s\n",
			i+1,
			item.Status,
			text.PadRight(text.TruncateString(title, summaryTitleWidth), summaryTitleWidth),
			text.TruncateString(detail, summaryDetailWidth),
		)
	}

	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Published: %d  Failed: %d  Skipped: %d  Total: %d\n",
		b.Count(models.ItemPublished), b.Count(models.ItemFailed), b.Count(models.ItemSkipped), b.Total)

	if b.Interrupted {
		fmt.Fprintf(&sb, "⚠️  Interrupted: %d URLs not started\n", b.NotStarted())
	}

	fmt.Fprintf(&sb, "Total Duration: %v\n", b.Duration.Round(time.Millisecond))

	_, err := io.WriteString(w, sb.String())

	return err
}
