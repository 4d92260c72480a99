package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/brochure/internal/crawler"
	"github.com/nao1215/brochure/internal/model"
	"github.com/nao1215/brochure/internal/report"
)

// Step names as recorded in Run.PerformedSteps.
const (
	StepFetch       = "fetch"
	StepSelectLinks = "select_links"
	StepSummarize   = "summarize"
	StepCompose     = "compose"
	StepPersist     = "persist"
)

// PageFetcher retrieves and extracts one web page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*model.Page, error)
}

// LinkSelector picks the brochure-relevant links of a landing page.
type LinkSelector interface {
	SelectRelevantLinks(ctx context.Context, page *model.Page) ([]model.LinkCandidate, error)
}

// PageSummarizer condenses one page into a structured summary.
type PageSummarizer interface {
	Summarize(ctx context.Context, page *model.Page) (*model.PageSummary, error)
}

// BrochureComposer writes the final document from concatenated summaries.
type BrochureComposer interface {
	Compose(ctx context.Context, allSummaries, sourceURL string) (*model.Brochure, error)
}

// LinkFilter removes links that must not be visited.
type LinkFilter interface {
	Filter(ctx context.Context, candidates []model.LinkCandidate) (allowed, disallowed []model.LinkCandidate)
}

// FetchStep retrieves the landing page.
type FetchStep struct {
	fetcher PageFetcher
}

// NewFetchStep creates a new FetchStep.
func NewFetchStep(fetcher PageFetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return StepFetch
}

// Do fetches run.URL into run.Page.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	page, err := s.fetcher.Fetch(ctx, run.URL)
	if err != nil {
		return err
	}
	run.Page = page
	return nil
}

// SelectLinksStep asks the selector for relevant links and turns its answer
// into a list of absolute, visitable URLs.
type SelectLinksStep struct {
	selector       LinkSelector
	ignorePatterns []string
	robots         LinkFilter
	firstLinkOnly  bool
	logger         *slog.Logger
}

// SelectLinksOption configures a SelectLinksStep.
type SelectLinksOption func(*SelectLinksStep)

// WithIgnorePatterns drops links whose path matches any of the patterns.
func WithIgnorePatterns(patterns []string) SelectLinksOption {
	return func(s *SelectLinksStep) {
		s.ignorePatterns = patterns
	}
}

// WithLinkFilter sets an additional filter, such as a robots.txt checker.
func WithLinkFilter(filter LinkFilter) SelectLinksOption {
	return func(s *SelectLinksStep) {
		s.robots = filter
	}
}

// WithFirstLinkOnly keeps only the first selected link.
func WithFirstLinkOnly(enabled bool) SelectLinksOption {
	return func(s *SelectLinksStep) {
		s.firstLinkOnly = enabled
	}
}

// WithSelectLogger sets a custom logger for the step.
func WithSelectLogger(logger *slog.Logger) SelectLinksOption {
	return func(s *SelectLinksStep) {
		s.logger = logger
	}
}

// NewSelectLinksStep creates a new SelectLinksStep.
func NewSelectLinksStep(selector LinkSelector, opts ...SelectLinksOption) *SelectLinksStep {
	s := &SelectLinksStep{selector: selector}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *SelectLinksStep) Name() string {
	return StepSelectLinks
}

// Do fills run.Selected. Links the selector returns that cannot be resolved
// to an http(s) URL are dropped with a warning, as are duplicates.
func (s *SelectLinksStep) Do(ctx context.Context, run *model.Run) error {
	if run.Page == nil {
		return model.NewSelectionError(run.URL, errors.New("landing page has not been fetched"))
	}

	candidates, err := s.selector.SelectRelevantLinks(ctx, run.Page)
	if err != nil {
		return err
	}

	kept, dropped, err := crawler.ResolveLinks(run.Page.URL, candidates)
	if err != nil {
		return model.NewSelectionError(run.URL, err)
	}
	for _, link := range dropped {
		s.logger.Warn("dropping unusable link", "type", link.Type, "url", link.URL)
	}

	if len(s.ignorePatterns) > 0 {
		var ignored []model.LinkCandidate
		kept, ignored = crawler.FilterIgnored(kept, s.ignorePatterns)
		for _, link := range ignored {
			s.logger.Debug("ignoring link", "url", link.URL)
		}
	}

	if s.robots != nil {
		var disallowed []model.LinkCandidate
		kept, disallowed = s.robots.Filter(ctx, kept)
		for _, link := range disallowed {
			s.logger.Info("link disallowed by robots.txt", "url", link.URL)
		}
	}

	if s.firstLinkOnly && len(kept) > 1 {
		kept = kept[:1]
	}

	s.logger.Debug("links selected", "count", len(kept))
	run.Selected = kept
	return nil
}

// SummarizeStep fetches and summarizes every selected link.
type SummarizeStep struct {
	fetcher    PageFetcher
	summarizer PageSummarizer
	batch      *BatchProcessor
}

// NewSummarizeStep creates a new SummarizeStep.
func NewSummarizeStep(fetcher PageFetcher, summarizer PageSummarizer, opts ...BatchOption) *SummarizeStep {
	return &SummarizeStep{
		fetcher:    fetcher,
		summarizer: summarizer,
		batch:      NewBatchProcessor(opts...),
	}
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return StepSummarize
}

// Do fills run.Summaries in the order of run.Selected.
func (s *SummarizeStep) Do(ctx context.Context, run *model.Run) error {
	summaries, err := s.batch.Process(ctx, run.Selected, s.summarizeLink)
	if err != nil {
		return err
	}
	run.Summaries = summaries
	return nil
}

func (s *SummarizeStep) summarizeLink(ctx context.Context, link model.LinkCandidate) (*model.PageSummary, error) {
	page, err := s.fetcher.Fetch(ctx, link.URL)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.Summarize(ctx, page)
	if err != nil {
		return nil, err
	}
	summary.Link = link
	return summary, nil
}

// ComposeStep generates the brochure from all summaries.
type ComposeStep struct {
	composer BrochureComposer
}

// NewComposeStep creates a new ComposeStep.
func NewComposeStep(composer BrochureComposer) *ComposeStep {
	return &ComposeStep{composer: composer}
}

// Name returns the step name.
func (s *ComposeStep) Name() string {
	return StepCompose
}

// Do fills run.Brochure.
func (s *ComposeStep) Do(ctx context.Context, run *model.Run) error {
	brochure, err := s.composer.Compose(ctx, run.AllSummaries(), run.URL)
	if err != nil {
		return err
	}
	run.Brochure = brochure
	return nil
}

// PersistStep writes the brochure to disk.
type PersistStep struct {
	outputFile string
	pdfFile    string
	logger     *slog.Logger
}

// NewPersistStep creates a new PersistStep. pdfFile may be empty.
func NewPersistStep(outputFile, pdfFile string, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{
		outputFile: outputFile,
		pdfFile:    pdfFile,
		logger:     logger,
	}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return StepPersist
}

// Do writes the brochure Markdown exactly as generated, and the PDF
// rendering when configured.
func (s *PersistStep) Do(_ context.Context, run *model.Run) error {
	if run.Brochure == nil {
		return model.NewPersistError(s.outputFile, errors.New("no brochure to write"))
	}

	// Render before writing so a failed export leaves no partial output.
	var pdf []byte
	if s.pdfFile != "" {
		data, err := report.RenderPDF(run.Brochure.Markdown, run.URL)
		if err != nil {
			return model.NewPersistError(s.pdfFile, fmt.Errorf("pdf export: %w", err))
		}
		pdf = data
		if err := report.WriteFileAtomic(s.pdfFile, pdf, 0644); err != nil {
			return model.NewPersistError(s.pdfFile, fmt.Errorf("pdf export: %w", err))
		}
	}

	if err := report.SaveBrochure(s.outputFile, run.Brochure.Markdown); err != nil {
		if s.pdfFile != "" {
			_ = os.Remove(s.pdfFile)
		}
		return model.NewPersistError(s.outputFile, err)
	}
	run.Brochure.Path = s.outputFile
	s.logger.Info("brochure written", "path", s.outputFile, "bytes", len(run.Brochure.Markdown))
	if s.pdfFile != "" {
		s.logger.Info("pdf written", "path", s.pdfFile, "bytes", len(pdf))
	}

	return nil
}
