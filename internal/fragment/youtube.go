// CLAUDE:SUMMARY YouTube fragment handler: oEmbed title/author lookup, no API key required.
package fragment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/hazyhaar/digest/internal/fetch"
)

// youtubeHandler retrieves video metadata through the oEmbed endpoint,
// which needs no API key.
type youtubeHandler struct {
	fetcher *fetch.Fetcher
	base    string // default "https://www.youtube.com"
}

func (h *youtubeHandler) Name() string { return "youtube" }

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
}

func (h *youtubeHandler) Fragment(ctx context.Context, _, id string) (string, error) {
	base := h.base
	if base == "" {
		base = "https://www.youtube.com"
	}
	watch := "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
	endpoint := base + "/oembed?format=json&url=" + url.QueryEscape(watch)
	res, err := h.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("youtube oembed %s: %w", id, err)
	}

	var o oembedResponse
	if err := json.Unmarshal(res.Body, &o); err != nil {
		return "", fmt.Errorf("decode youtube oembed %s: %w", id, err)
	}
	if o.Title == "" {
		return "", fmt.Errorf("youtube oembed %s: no title", id)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "YouTube video: %s\n", o.Title)
	if o.AuthorName != "" {
		fmt.Fprintf(&b, "Channel: %s\n", o.AuthorName)
	}
	fmt.Fprintf(&b, "URL: %s\n", watch)
	return b.String(), nil
}
