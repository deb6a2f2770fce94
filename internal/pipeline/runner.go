// Package pipeline drives each URL through fetch, generation, normalization
// and publishing, one item at a time, isolating failures per item.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seopress/internal/logger"
	"seopress/internal/models"
	"seopress/internal/normalizer"
	"seopress/pkg/utils"
)

const previewWidth = 100

// SourceFetcher downloads and extracts a source article.
type SourceFetcher interface {
	Fetch(ctx context.Context, url string) (*models.SourceArticle, error)
}

// ContentGenerator produces rewritten text for a source article.
type ContentGenerator interface {
	Generate(ctx context.Context, title, reference string) (*models.GeneratedText, error)
}

// Publisher uploads featured images and creates posts.
type Publisher interface {
	UploadImage(ctx context.Context, imageURL string) (int, bool)
	Publish(ctx context.Context, article models.NormalizedArticle, imageID int) models.PublishResult
}

// Archiver keeps a local copy of every published article.
type Archiver interface {
	Save(src models.SourceArticle, article models.NormalizedArticle, result models.PublishResult) (string, error)
}

// Runner executes the per-item state machine.
type Runner struct {
	fetcher   SourceFetcher
	generator ContentGenerator
	publisher Publisher
	archiver  Archiver
	processor *normalizer.Processor
	logger    *logger.Logger
	text      *utils.StringHelper
}

// NewRunner creates a runner from its stage implementations.
func NewRunner(fetcher SourceFetcher, generator ContentGenerator, processor *normalizer.Processor, publisher Publisher, log *logger.Logger) *Runner {
	return &Runner{
		fetcher:   fetcher,
		generator: generator,
		processor: processor,
		publisher: publisher,
		logger:    log,
		text:      utils.NewStringHelper(),
	}
}

// SetArchiver enables archiving of published articles.
func (r *Runner) SetArchiver(a Archiver) {
	r.archiver = a
}

// ProcessURL runs one URL through all stages. It never returns an error; the
// outcome is reported in the ItemResult.
func (r *Runner) ProcessURL(ctx context.Context, url string) models.ItemResult {
	return r.process(ctx, url, r.logger)
}

// Run processes urls in order, one at a time. An item failure never stops the
// batch; a cancelled context stops it before the next item starts.
func (r *Runner) Run(ctx context.Context, urls []string) *BatchReport {
	report := &BatchReport{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Total:   len(urls),
	}

	log := r.logger.With("run", report.RunID)
	log.Info(fmt.Sprintf("🚀 Starting batch of %d URLs", len(urls)))

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			log.Warn(fmt.Sprintf("🛑 Interrupted, %d URLs not started: %v", len(urls)-i, err))

			break
		}

		log.Info(fmt.Sprintf("[%d/%d] %s", i+1, len(urls), url))
		report.Items = append(report.Items, r.process(ctx, url, log))
	}

	report.Duration = time.Since(report.Started)

	log.Info(fmt.Sprintf("✨ Batch complete: %d published, %d failed, %d skipped in %v",
		report.Count(models.ItemPublished),
		report.Count(models.ItemFailed),
		report.Count(models.ItemSkipped),
		report.Duration.Round(time.Millisecond),
	))

	return report
}

func (r *Runner) process(ctx context.Context, url string, log *logger.Logger) models.ItemResult {
	start := time.Now()
	result := models.ItemResult{URL: url, Stage: models.StageFetching}

	src, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn(fmt.Sprintf("⏭️  Fetch failed, skipping %s: %v", url, err))

		return r.fail(result, models.ItemSkipped, err.Error(), start)
	}

	log.Info(fmt.Sprintf("📄 Source fetched: %q", src.Title))

	result.Stage = models.StageGenerating

	gen, err := r.generator.Generate(ctx, src.Title, src.Body)
	if err != nil {
		log.Warn(fmt.Sprintf("⚠️  Generation failed for %s, using source content: %v", url, err))

		gen = nil
	} else {
		log.Debug(fmt.Sprintf("📜 Generated: %s", r.text.Preview(gen.Raw, previewWidth)))
	}

	result.Stage = models.StageNormalizing

	article := r.processor.Process(*src, gen)
	if article.TitleFallback && !article.ContentFallback {
		log.Warn(fmt.Sprintf("⚠️  Generated title rejected, using source title %q", article.Title))
	}

	result.Article = &article
	result.Stage = models.StagePublishing

	imageID := 0

	if src.HasImage() {
		if id, ok := r.publisher.UploadImage(ctx, src.ImageURL); ok {
			imageID = id
		} else {
			log.Warn("🖼️  Publishing without featured image")
		}
	}

	published := r.publisher.Publish(ctx, article, imageID)
	if !published.Published() {
		log.Error(fmt.Sprintf("❌ Publish failed for %s: %s", url, published.Reason))

		return r.fail(result, models.ItemFailed, published.Reason, start)
	}

	result.Status = models.ItemPublished
	result.Stage = models.StageDone
	result.PostID = published.PostID
	result.Link = published.Link

	log.Info(fmt.Sprintf("✅ Published %q: %s", article.Title, published.Link))

	if r.archiver != nil {
		path, err := r.archiver.Save(*src, article, published)
		if err != nil {
			log.Warn(fmt.Sprintf("Archive failed for %s: %v", url, err))
		} else {
			log.Debug(fmt.Sprintf("Archived to %s", path))
		}
	}

	result.Duration = time.Since(start)

	return result
}

func (r *Runner) fail(result models.ItemResult, status models.ItemStatus, reason string, start time.Time) models.ItemResult {
	result.Status = status
	result.FailedStage = result.Stage
	result.Reason = reason
	result.Duration = time.Since(start)

	return result
}
