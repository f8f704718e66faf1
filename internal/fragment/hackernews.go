// CLAUDE:SUMMARY Hacker News fragment handler: Algolia items API, flattened comment tree, HTML stripped.
package fragment

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/digest/internal/fetch"
)

// hackerNewsHandler retrieves an item and its comment tree from the
// Algolia HN API (single request for the whole tree).
type hackerNewsHandler struct {
	fetcher *fetch.Fetcher
	base    string // default "https://hn.algolia.com"
}

func (h *hackerNewsHandler) Name() string { return "hackernews" }

// hnMaxComments bounds how many comments go into the fragment.
const hnMaxComments = 50

// hnItem mirrors the Algolia items response. Text fields are HTML.
type hnItem struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Author   string   `json:"author"`
	Points   int      `json:"points"`
	URL      string   `json:"url"`
	Children []hnItem `json:"children"`
}

var hnStrip = bluemonday.StrictPolicy()

func (h *hackerNewsHandler) Fragment(ctx context.Context, _, id string) (string, error) {
	base := h.base
	if base == "" {
		base = "https://hn.algolia.com"
	}
	endpoint := fmt.Sprintf("%s/api/v1/items/%s", base, id)
	res, err := h.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("hn item %s: %w", id, err)
	}

	var item hnItem
	if err := json.Unmarshal(res.Body, &item); err != nil {
		return "", fmt.Errorf("decode hn item %s: %w", id, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hacker News: %s (%d points)\n", item.Title, item.Points)
	if item.URL != "" {
		fmt.Fprintf(&b, "Link: %s\n", item.URL)
	}
	if item.Text != "" {
		fmt.Fprintf(&b, "\n%s\n", stripHTML(item.Text))
	}

	b.WriteString("\nComments:\n")
	count := 0
	var walk func(items []hnItem, depth int)
	walk = func(items []hnItem, depth int) {
		for _, c := range items {
			if count >= hnMaxComments {
				return
			}
			if c.Text != "" {
				fmt.Fprintf(&b, "%s- %s: %s\n", strings.Repeat("  ", depth), c.Author, stripHTML(c.Text))
				count++
			}
			walk(c.Children, depth+1)
		}
	}
	walk(item.Children, 0)

	return b.String(), nil
}

// stripHTML removes tags and decodes entities from Algolia's HTML text.
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(hnStrip.Sanitize(s)))
}
