// CLAUDE:SUMMARY Classifies URLs into site categories and extracts the per-site content identifier.
// Package resolve classifies a URL into a site category and extracts
// the canonical per-site identifier (Reddit post ID, Hacker News item
// ID, YouTube video ID).
//
// Extraction runs an ordered list of strategies per category (expected
// path-segment pattern, then query-parameter fallback, then a
// permissive regex over the URL); the first strategy that yields a
// non-empty identifier wins. Unmatched domains classify as Generic
// with no identifier — that is the default path, not an error.
package resolve

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Category is the closed set of recognised site categories.
type Category int

const (
	Generic Category = iota
	Reddit
	HackerNews
	YouTube
)

// String returns the canonical lower-case name of the category.
func (c Category) String() string {
	switch c {
	case Reddit:
		return "reddit"
	case HackerNews:
		return "hackernews"
	case YouTube:
		return "youtube"
	default:
		return "generic"
	}
}

// ErrInvalidURL is returned when the input is not a well-formed
// absolute URL (scheme and host required).
var ErrInvalidURL = errors.New("resolve: invalid URL")

var (
	redditPathRe  = regexp.MustCompile(`(?:^|/)comments/([A-Za-z0-9_]+)`)
	youtubeIDRe   = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	hackerNewsRe  = regexp.MustCompile(`item\?id=([0-9]+)`)
	youtubePathRe = regexp.MustCompile(`^/(?:embed|v|shorts|live)/([0-9A-Za-z_-]{11})(?:/|$)`)
)

// Classify parses rawURL, matches its host against the known site
// domains, and extracts the site identifier where one applies.
// Generic URLs return an empty identifier.
func Classify(rawURL string) (Category, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Generic, "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return Generic, "", fmt.Errorf("%w: scheme and host are required", ErrInvalidURL)
	}

	host := strings.ToLower(u.Hostname())

	switch {
	case host == "reddit.com" || strings.HasSuffix(host, ".reddit.com"):
		return Reddit, extractRedditID(u), nil
	case host == "news.ycombinator.com" || host == "www.news.ycombinator.com":
		return HackerNews, extractHackerNewsID(u), nil
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		return YouTube, extractYouTubeID(u), nil
	case host == "youtu.be":
		return YouTube, extractYouTubeID(u), nil
	}

	return Generic, "", nil
}

// extractRedditID pulls the post ID out of /r/<sub>/comments/<id>/...
// or the short /comments/<id> form.
func extractRedditID(u *url.URL) string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 4 && parts[0] == "r" && parts[2] == "comments" {
		return parts[3]
	}
	if len(parts) >= 2 && parts[0] == "comments" {
		return parts[1]
	}
	// Permissive fallback over the whole path.
	if m := redditPathRe.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

// extractHackerNewsID reads the numeric item id. HN carries the id in
// the query string, so the query strategy leads.
func extractHackerNewsID(u *url.URL) string {
	if id := u.Query().Get("id"); id != "" && isDigits(id) {
		return id
	}
	if m := hackerNewsRe.FindStringSubmatch(u.String()); m != nil {
		return m[1]
	}
	return ""
}

// extractYouTubeID handles youtu.be short links, /watch?v=, the
// /embed//v//shorts/ path forms, and finally any path segment that is
// exactly a video ID. An ID must occupy a whole segment or parameter
// value; an 11-character run inside a longer word does not count.
func extractYouTubeID(u *url.URL) string {
	if strings.ToLower(u.Hostname()) == "youtu.be" {
		seg, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if youtubeIDRe.MatchString(seg) {
			return seg
		}
		return ""
	}
	if m := youtubePathRe.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	if id := u.Query().Get("v"); youtubeIDRe.MatchString(id) {
		return id
	}
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if youtubeIDRe.MatchString(seg) {
			return seg
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
