// CLAUDE:SUMMARY Generic page handler: fetch, bluemonday sanitize, markdown conversion, plain-text fallback.
package fragment

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/digest/internal/fetch"
)

// genericHandler summarizes arbitrary pages: fetch, sanitize, convert
// to markdown so the LLM sees structure instead of markup soup.
type genericHandler struct {
	fetcher *fetch.Fetcher
}

func (h *genericHandler) Name() string { return "" }

var genericSanitize = bluemonday.UGCPolicy()

func (h *genericHandler) Fragment(ctx context.Context, pageURL, _ string) (string, error) {
	res, err := h.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}

	clean := genericSanitize.SanitizeBytes(res.Body)
	md, err := htmltomarkdown.ConvertString(string(clean))
	if err == nil {
		if md = strings.TrimSpace(md); md != "" {
			return md, nil
		}
	}

	// Markdown conversion produced nothing usable; fall back to raw
	// text extraction from the original document.
	text := extractText(res.Body)
	if text == "" {
		return "", fmt.Errorf("page has no extractable text")
	}
	return text, nil
}

// extractText walks the HTML tree collecting text nodes, skipping
// script and style subtrees.
func extractText(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(b.String())
}
