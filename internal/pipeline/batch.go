package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/brochure/internal/model"
)

// DefaultConcurrency is the link fan-out used when none is configured.
const DefaultConcurrency = 4

// LinkFunc produces the summary of one selected link.
type LinkFunc func(ctx context.Context, link model.LinkCandidate) (*model.PageSummary, error)

// ProgressFunc is called after each link is summarized. Calls are
// serialized, so implementations need no locking.
type ProgressFunc func(done, total int, link model.LinkCandidate)

// BatchProcessor runs a LinkFunc over selected links concurrently.
// Results keep the order of the input links regardless of completion order.
// The first failure cancels the remaining work.
type BatchProcessor struct {
	concurrency int
	logger      *slog.Logger
	progress    ProgressFunc
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of links processed at once.
// A value of 1 processes links sequentially.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithProgress sets a callback invoked after each completed link.
func WithProgress(fn ProgressFunc) BatchOption {
	return func(b *BatchProcessor) {
		b.progress = fn
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Process applies fn to every link and returns the summaries in link order.
// It returns the first error encountered; no partial result is returned.
func (bp *BatchProcessor) Process(ctx context.Context, links []model.LinkCandidate, fn LinkFunc) ([]model.PageSummary, error) {
	bp.logger.Debug("starting link batch",
		"total_links", len(links),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocated by index so the output order matches the input order.
	results := make([]model.PageSummary, len(links))

	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			summary, err := fn(ctx, link)
			if err != nil {
				bp.logger.Warn("link failed", "url", link.URL, "error", err)
				return err
			}
			results[i] = *summary

			mu.Lock()
			done++
			if bp.progress != nil {
				bp.progress(done, len(links), link)
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	bp.logger.Debug("link batch complete",
		"total_links", len(links),
		"elapsed", time.Since(startTime),
	)

	return results, nil
}
