package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/model"
)

// maxRobotsSize caps the robots.txt bytes read per host.
const maxRobotsSize = 512 * 1024

// RobotsChecker decides whether URLs may be fetched according to the
// target's robots.txt. Each host's file is downloaded once per checker.
// A checker is meant to live for one run.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsChecker creates a RobotsChecker.
func NewRobotsChecker(client *http.Client, userAgent string, logger *slog.Logger) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: config.DefaultTimeout}
	}
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched. Unreachable robots.txt
// files allow everything.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	data := r.robotsFor(ctx, u)
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.userAgent)
}

// Filter splits candidates into allowed and disallowed, keeping order.
func (r *RobotsChecker) Filter(ctx context.Context, candidates []model.LinkCandidate) (allowed, disallowed []model.LinkCandidate) {
	allowed = make([]model.LinkCandidate, 0, len(candidates))
	for _, c := range candidates {
		if r.Allowed(ctx, c.URL) {
			allowed = append(allowed, c)
		} else {
			disallowed = append(disallowed, c)
		}
	}
	return allowed, disallowed
}

func (r *RobotsChecker) robotsFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	r.mu.Lock()
	defer r.mu.Unlock()

	if data, ok := r.hosts[key]; ok {
		return data
	}

	data := r.download(ctx, key+"/robots.txt")
	r.hosts[key] = data
	return data
}

func (r *RobotsChecker) download(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("robots.txt unavailable", "url", robotsURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		r.logger.Debug("robots.txt unparsable", "url", robotsURL, "error", err)
		return nil
	}
	return data
}
