package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nao1215/brochure/internal/composer"
	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/crawler"
	"github.com/nao1215/brochure/internal/llm"
	"github.com/nao1215/brochure/internal/model"
	"github.com/nao1215/brochure/internal/selector"
	"github.com/nao1215/brochure/internal/summarizer"
)

// Generator turns website URLs into brochures. It keeps no state between
// runs; every call builds its own pipeline, so one Generator may serve
// concurrent requests. Concurrent runs share cfg.OutputFile and the last
// one to finish wins.
type Generator struct {
	cfg        *config.Config
	client     llm.Client
	httpClient *http.Client
	logger     *slog.Logger
	progress   ProgressFunc

	fetcher    PageFetcher
	selector   LinkSelector
	summarizer PageSummarizer
	composer   BrochureComposer
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithHTTPClient sets the client used for website requests.
func WithHTTPClient(client *http.Client) GeneratorOption {
	return func(g *Generator) {
		g.httpClient = client
	}
}

// WithGeneratorLogger sets a custom logger.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithProgressFunc reports each summarized link.
func WithProgressFunc(fn ProgressFunc) GeneratorOption {
	return func(g *Generator) {
		g.progress = fn
	}
}

// WithFetcher replaces the default website fetcher.
func WithFetcher(f PageFetcher) GeneratorOption {
	return func(g *Generator) {
		g.fetcher = f
	}
}

// WithSelector replaces the default link selector.
func WithSelector(s LinkSelector) GeneratorOption {
	return func(g *Generator) {
		g.selector = s
	}
}

// WithSummarizer replaces the default page summarizer.
func WithSummarizer(s PageSummarizer) GeneratorOption {
	return func(g *Generator) {
		g.summarizer = s
	}
}

// WithComposer replaces the default brochure composer.
func WithComposer(c BrochureComposer) GeneratorOption {
	return func(g *Generator) {
		g.composer = c
	}
}

// NewGenerator creates a Generator from cfg and a text-generation client.
func NewGenerator(cfg *config.Config, client llm.Client, opts ...GeneratorOption) *Generator {
	g := &Generator{
		cfg:    cfg,
		client: client,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.httpClient == nil {
		g.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return g
}

// Run generates the brochure for rawURL and writes it to the configured
// output file. A missing scheme defaults to https. Failures are model.Error
// values carrying the failing stage.
func (g *Generator) Run(ctx context.Context, rawURL string) (*model.Brochure, error) {
	run, err := g.RunWithReport(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return run.Brochure, nil
}

// RunWithReport is like Run but returns the whole run record, which is
// non-nil even when the run fails.
func (g *Generator) RunWithReport(ctx context.Context, rawURL string) (*model.Run, error) {
	target, err := crawler.NormalizeInputURL(rawURL)
	if err != nil {
		run := model.NewRun(rawURL)
		err = model.NewFetchError(rawURL, err)
		run.Fail(err)
		run.Finish()
		return run, err
	}

	run := model.NewRun(target)
	logger := g.logger.With("run_id", run.ID, "url", run.URL)
	logger.Info("brochure run started")

	p := g.newPipeline(run.URL, logger)
	err = p.Execute(ctx, run)
	run.Finish()

	if err != nil {
		logger.Warn("brochure run failed",
			"status", run.Status(),
			"duration", run.Duration(),
			"error", err,
		)
		return run, err
	}

	logger.Info("brochure run complete",
		"links", len(run.Selected),
		"duration", run.Duration(),
	)
	return run, nil
}

// newPipeline assembles fetch, select_links, summarize, compose and persist
// for one run against target.
func (g *Generator) newPipeline(target string, logger *slog.Logger) *Pipeline {
	cfg := g.cfg
	site := cfg.SiteConfig(hostOf(target))

	fetcher := g.fetcher
	if fetcher == nil {
		fetcher = crawler.NewFetcher(g.httpClient,
			crawler.WithUserAgent(cfg.UserAgent),
			crawler.WithMaxBodySize(cfg.MaxBodySize),
			crawler.WithSiteLookup(cfg.SiteConfig),
			crawler.WithFetcherLogger(logger),
		)
	}

	linkSelector := g.selector
	if linkSelector == nil {
		maxLinks := cfg.MaxLinks
		if site.MaxLinks > 0 {
			maxLinks = site.MaxLinks
		}
		linkSelector = selector.New(g.client,
			selector.WithMaxLinks(maxLinks),
			selector.WithLogger(logger),
		)
	}

	pageSummarizer := g.summarizer
	if pageSummarizer == nil {
		pageSummarizer = summarizer.New(g.client,
			summarizer.WithMaxChars(cfg.MaxPageChars),
			summarizer.WithLogger(logger),
		)
	}

	brochureComposer := g.composer
	if brochureComposer == nil {
		brochureComposer = composer.New(g.client,
			composer.WithModel(cfg.Model),
			composer.WithLogger(logger),
		)
	}

	selectOpts := []SelectLinksOption{
		WithIgnorePatterns(site.IgnorePatterns),
		WithFirstLinkOnly(cfg.FirstLinkOnly),
		WithSelectLogger(logger),
	}
	if cfg.RespectRobots {
		selectOpts = append(selectOpts,
			WithLinkFilter(crawler.NewRobotsChecker(g.httpClient, cfg.UserAgent, logger)))
	}

	batchOpts := []BatchOption{
		WithConcurrency(cfg.Concurrency),
		WithBatchLogger(logger),
	}
	if g.progress != nil {
		batchOpts = append(batchOpts, WithProgress(g.progress))
	}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewFetchStep(fetcher),
		NewSelectLinksStep(linkSelector, selectOpts...),
		NewSummarizeStep(fetcher, pageSummarizer, batchOpts...),
		NewComposeStep(brochureComposer),
		NewPersistStep(cfg.OutputFile, cfg.PDFFile, logger),
	)
	return p
}

// hostOf returns the lowercase host of rawURL, or "" when it does not parse.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
