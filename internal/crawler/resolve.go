package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/brochure/internal/model"
)

// ErrNoHost is returned for URLs that do not name a host.
var ErrNoHost = errors.New("URL has no host")

// ErrUnsupportedScheme is returned for URLs that are not http or https.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// NormalizeInputURL turns user input into an absolute http(s) URL.
// A missing scheme defaults to https.
func NormalizeInputURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoHost
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if err := checkHTTPURL(u); err != nil {
		return "", err
	}
	return u.String(), nil
}

// ResolveLinks resolves candidate URLs against base and drops the ones that
// cannot be fetched: unparsable, non-http(s), or without a host. Duplicates
// after normalization are dropped, keeping the first. Order is preserved.
//
// The dropped candidates are returned so callers can report them.
func ResolveLinks(base string, candidates []model.LinkCandidate) (kept, dropped []model.LinkCandidate, err error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid base URL: %w", err)
	}

	kept = make([]model.LinkCandidate, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		ref, err := url.Parse(strings.TrimSpace(c.URL))
		if err != nil {
			dropped = append(dropped, c)
			continue
		}

		abs := baseURL.ResolveReference(ref)
		abs.Fragment = ""
		if checkHTTPURL(abs) != nil {
			dropped = append(dropped, c)
			continue
		}

		key := normalizeURL(abs)
		if seen[key] {
			dropped = append(dropped, c)
			continue
		}
		seen[key] = true

		kept = append(kept, model.LinkCandidate{Type: c.Type, URL: abs.String()})
	}

	return kept, dropped, nil
}

func checkHTTPURL(u *url.URL) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return ErrNoHost
	}
	return nil
}

// normalizeURL returns the deduplication key of u: lowercase scheme and
// host, no fragment, and "/" for an empty path.
func normalizeURL(u *url.URL) string {
	n := *u
	n.Fragment = ""
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)
	if n.Path == "" {
		n.Path = "/"
	}
	return n.String()
}
