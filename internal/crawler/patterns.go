package crawler

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nao1215/brochure/internal/model"
)

// FilterIgnored drops candidates whose URL path matches one of the glob
// patterns. Candidates with unparsable URLs are kept; ResolveLinks decides
// about those.
func FilterIgnored(candidates []model.LinkCandidate, patterns []string) (kept, ignored []model.LinkCandidate) {
	if len(patterns) == 0 {
		return candidates, nil
	}

	kept = make([]model.LinkCandidate, 0, len(candidates))
	for _, c := range candidates {
		if isIgnored(c.URL, patterns) {
			ignored = append(ignored, c)
			continue
		}
		kept = append(kept, c)
	}
	return kept, ignored
}

func isIgnored(rawURL string, patterns []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range patterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a glob pattern.
//   - "/legal/*" matches "/legal" and everything below it
//   - "*.pdf" matches any path ending in ".pdf"
//   - other patterns use filepath.Match, and patterns without a slash are
//     also tried against the last path element
func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if ext, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(ext, ".") {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}
