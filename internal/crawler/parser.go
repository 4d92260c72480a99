package crawler

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/brochure/internal/model"
)

// irrelevantSelector matches body elements that carry no readable text.
const irrelevantSelector = "script, style, img, input"

// ParseResult contains the information extracted from an HTML page.
type ParseResult struct {
	// Title is the text of the first <title> element, or model.NoTitle.
	Title string

	// Text is the visible body text, one trimmed text segment per line.
	Text string

	// Links holds every non-empty anchor href, in document order.
	Links []string
}

// Parse extracts the title, visible text and links from HTML content.
// Malformed HTML is accepted the way browsers accept it. A document without
// a <body> tag yields empty text, even though the HTML parser would supply
// an implied body for stray content.
func Parse(content io.Reader) (*ParseResult, error) {
	raw, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Title: model.NoTitle,
		Links: make([]string, 0),
	}

	if title := doc.Find("title").First(); title.Length() > 0 {
		result.Title = strings.TrimSpace(title.Text())
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			result.Links = append(result.Links, href)
		}
	})

	if hasBodyTag(raw) {
		body := doc.Find("body")
		body.Find(irrelevantSelector).Remove()
		result.Text = norm.NFC.String(strings.Join(textSegments(body.Nodes), "\n"))
	}

	return result, nil
}

// hasBodyTag reports whether raw contains an explicit <body> start tag.
func hasBodyTag(raw []byte) bool {
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "body" {
				return true
			}
		}
	}
}

// textSegments returns the trimmed, non-empty text nodes under roots in
// document order. Comments are not text.
func textSegments(roots []*html.Node) []string {
	segments := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				segments = append(segments, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range roots {
		walk(root)
	}
	return segments
}
