package models

import (
	"fmt"
	"time"
)

// PublishStatus is the outcome of a post creation.
type PublishStatus string

// Publish statuses.
const (
	PublishStatusPublished PublishStatus = "published"
	PublishStatusFailed    PublishStatus = "failed"
)

// PublishResult reports what the CMS did with one article.
type PublishResult struct {
	Status PublishStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Link   string        `json:"link,omitempty"`
	PostID int           `json:"postId,omitempty"`
}

// Published reports whether the post was created.
func (r PublishResult) Published() bool {
	return r.Status == PublishStatusPublished
}

// Stage is a step of the per-item state machine.
type Stage string

// Pipeline stages in execution order.
const (
	StageFetching    Stage = "fetching"
	StageGenerating  Stage = "generating"
	StageNormalizing Stage = "normalizing"
	StagePublishing  Stage = "publishing"
	StageDone        Stage = "done"
)

// ItemStatus is the final status of one URL in a batch.
type ItemStatus string

// Item statuses.
const (
	ItemPublished ItemStatus = "published"
	ItemFailed    ItemStatus = "failed"
	ItemSkipped   ItemStatus = "skipped"
)

// ItemResult tracks the outcome of processing one URL.
type ItemResult struct {
	Article     *NormalizedArticle `json:"article,omitempty"`
	URL         string             `json:"url"`
	Status      ItemStatus         `json:"status"`
	Stage       Stage              `json:"stage"`
	FailedStage Stage              `json:"failedStage,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Link        string             `json:"link,omitempty"`
	PostID      int                `json:"postId,omitempty"`
	Duration    time.Duration      `json:"duration"`
}

// String returns a one-line description of the result.
func (r ItemResult) String() string {
	if r.FailedStage != "" {
		return fmt.Sprintf("%s %s (failed at %s: %s)", r.Status, r.URL, r.FailedStage, r.Reason)
	}

	return fmt.Sprintf("%s %s", r.Status, r.URL)
}
