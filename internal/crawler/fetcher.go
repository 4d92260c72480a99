package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/model"
)

// ErrHTTPStatus is wrapped by fetch errors caused by a 4xx or 5xx response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// SiteLookup returns the per-site settings for a host.
type SiteLookup func(host string) config.SiteConfig

// Fetcher retrieves a single page over HTTP and extracts its content.
// A Fetcher holds no per-page state and is safe for concurrent use.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	sites       SiteLookup
	logger      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithSiteLookup adds per-site cookies and headers to requests.
func WithSiteLookup(lookup SiteLookup) FetcherOption {
	return func(f *Fetcher) {
		f.sites = lookup
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher that issues requests with client.
// The client's Timeout bounds each request.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: config.DefaultTimeout}
	}

	f := &Fetcher{
		client:      client,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads pageURL and returns its title, text and links.
// Every failure is a model.ErrFetch error: invalid URL, network failure,
// body read failure, or an HTTP status of 400 or above.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, model.NewFetchError(pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, model.NewFetchError(pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	f.applySite(req, u.Hostname())

	f.logger.Debug("fetching page", "url", pageURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, model.NewFetchError(pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, model.NewFetchError(pageURL,
			fmt.Errorf("%w: %d %s", ErrHTTPStatus, resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, model.NewFetchError(pageURL, fmt.Errorf("failed to read body: %w", err))
	}

	contentType := resp.Header.Get("Content-Type")
	page := &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Title:       model.NoTitle,
		Links:       make([]string, 0),
	}
	page.ComputeHash(body)

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		// Unknown declared charset: parse the bytes as they are.
		reader = bytes.NewReader(body)
	}

	result, err := Parse(reader)
	if err != nil {
		return nil, model.NewFetchError(pageURL, fmt.Errorf("failed to parse page: %w", err))
	}

	page.Title = result.Title
	page.Text = result.Text
	page.Links = result.Links

	f.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"title", page.Title,
		"links", len(page.Links),
	)

	return page, nil
}

// applySite adds the configured cookie and headers for host.
func (f *Fetcher) applySite(req *http.Request, host string) {
	if f.sites == nil {
		return
	}

	site := f.sites(strings.ToLower(host))
	if site.Cookie != "" {
		req.Header.Set("Cookie", site.Cookie)
	}
	for k, v := range site.Headers {
		req.Header.Set(k, v)
	}
}
