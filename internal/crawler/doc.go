// Package crawler retrieves web pages and extracts what the brochure
// pipeline needs from them.
//
// # Components
//
//   - Fetcher: one HTTP GET per page, charset decoding, size limits
//   - Parse: title, visible body text and raw anchor hrefs
//   - ResolveLinks: turns selector output into absolute, unique http(s) URLs
//   - FilterIgnored: drops links matching configured glob patterns
//   - RobotsChecker: optional robots.txt filter
//
// # Usage
//
//	fetcher := crawler.NewFetcher(httpClient, crawler.WithUserAgent(ua))
//	page, err := fetcher.Fetch(ctx, "https://example.com")
package crawler
