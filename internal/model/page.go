package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// NoTitle is the title reported for pages without a <title> element.
const NoTitle = "No title found"

// MaxPageSize is the maximum size of raw page content kept for hashing.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// Page represents one fetched URL.
// A Page is built once by the fetcher and never modified afterwards.
type Page struct {
	// URL is the absolute address the page was fetched from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type of the response.
	ContentType string `json:"content_type,omitempty"`

	// Title is the text of the first <title> element, or NoTitle.
	Title string `json:"title"`

	// Text is the visible body text. Each text segment is trimmed and the
	// segments are joined with newlines.
	Text string `json:"-"`

	// Links holds the raw href values of all anchors in document order.
	// Values may be relative. Empty values are filtered, duplicates are kept.
	Links []string `json:"links"`

	// Hash is the SHA-256 of the raw body.
	Hash string `json:"hash,omitempty"`
}

// Contents returns the title and text framed for a text-generation prompt.
func (p *Page) Contents() string {
	return fmt.Sprintf("Webpage title: %s\nWebpage contents:\n%s\n", p.Title, p.Text)
}

// TruncatedContents is Contents with the page text limited to maxRunes runes.
// A non-positive maxRunes disables the limit.
func (p *Page) TruncatedContents(maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(p.Text) <= maxRunes {
		return p.Contents()
	}

	var b strings.Builder
	n := 0
	for _, r := range p.Text {
		if n == maxRunes {
			break
		}
		b.WriteRune(r)
		n++
	}
	return fmt.Sprintf("Webpage title: %s\nWebpage contents:\n%s\n", p.Title, b.String())
}

// ComputeHash sets Hash to the hex SHA-256 of raw.
// Empty input produces an empty hash.
func (p *Page) ComputeHash(raw []byte) {
	if len(raw) == 0 {
		p.Hash = ""
		return
	}
	if len(raw) > MaxPageSize {
		raw = raw[:MaxPageSize]
	}

	hash := sha256.Sum256(raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// HasTitle reports whether the page had a <title> element.
func (p *Page) HasTitle() bool {
	return p.Title != NoTitle
}
