// CLAUDE:SUMMARY Reddit fragment handler: thread JSON via /comments/{id}.json, post plus top comments.
package fragment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hazyhaar/digest/internal/fetch"
)

// redditHandler retrieves a post and its comments through Reddit's
// public JSON endpoint.
type redditHandler struct {
	fetcher *fetch.Fetcher
	base    string // default "https://www.reddit.com"
}

func (h *redditHandler) Name() string { return "reddit" }

// redditMaxComments bounds how many comments go into the fragment.
const redditMaxComments = 30

// redditListing mirrors the parts of Reddit's listing JSON we use.
// replies is a nested listing or the empty string, so it stays raw.
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title    string          `json:"title"`
				SelfText string          `json:"selftext"`
				Body     string          `json:"body"`
				Author   string          `json:"author"`
				Replies  json.RawMessage `json:"replies"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (h *redditHandler) Fragment(ctx context.Context, _, id string) (string, error) {
	base := h.base
	if base == "" {
		base = "https://www.reddit.com"
	}
	endpoint := fmt.Sprintf("%s/comments/%s.json", base, id)
	res, err := h.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("reddit thread %s: %w", id, err)
	}

	// The endpoint returns [post-listing, comment-listing].
	var listings []redditListing
	if err := json.Unmarshal(res.Body, &listings); err != nil {
		return "", fmt.Errorf("decode reddit thread %s: %w", id, err)
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return "", fmt.Errorf("reddit thread %s: empty listing", id)
	}

	var b strings.Builder
	post := listings[0].Data.Children[0].Data
	fmt.Fprintf(&b, "Reddit post: %s\n", post.Title)
	if post.SelfText != "" {
		fmt.Fprintf(&b, "\n%s\n", post.SelfText)
	}

	if len(listings) > 1 {
		count := 0
		b.WriteString("\nComments:\n")
		for _, child := range listings[1].Data.Children {
			c := child.Data
			if c.Body == "" || count >= redditMaxComments {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", c.Author, c.Body)
			count++
		}
	}
	return b.String(), nil
}
