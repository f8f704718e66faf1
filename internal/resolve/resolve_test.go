package resolve

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	// WHAT: Domain matching and identifier extraction across all four
	// categories, including subdomain and short-link variants.
	// WHY: The summarization path depends on the category and the ID;
	// a misclassified URL gets summarized with the wrong fragment.
	tests := []struct {
		name     string
		url      string
		category Category
		id       string
	}{
		{"reddit full", "https://www.reddit.com/r/golang/comments/1abc2d/some_title/", Reddit, "1abc2d"},
		{"reddit old", "https://old.reddit.com/r/golang/comments/1abc2d/", Reddit, "1abc2d"},
		{"reddit short", "https://reddit.com/comments/1abc2d", Reddit, "1abc2d"},
		{"reddit no id", "https://www.reddit.com/r/golang/", Reddit, ""},
		{"hn item", "https://news.ycombinator.com/item?id=39876543", HackerNews, "39876543"},
		{"hn front page", "https://news.ycombinator.com/", HackerNews, ""},
		{"hn non-numeric id", "https://news.ycombinator.com/item?id=abc", HackerNews, ""},
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", YouTube, "dQw4w9WgXcQ"},
		{"youtube short", "https://youtu.be/dQw4w9WgXcQ", YouTube, "dQw4w9WgXcQ"},
		{"youtube shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", YouTube, "dQw4w9WgXcQ"},
		{"youtube embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", YouTube, "dQw4w9WgXcQ"},
		{"youtube mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", YouTube, "dQw4w9WgXcQ"},
		{"youtube extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", YouTube, "dQw4w9WgXcQ"},
		{"youtube live", "https://www.youtube.com/live/dQw4w9WgXcQ?feature=share", YouTube, "dQw4w9WgXcQ"},
		{"youtube bare segment", "https://www.youtube.com/dQw4w9WgXcQ", YouTube, "dQw4w9WgXcQ"},
		{"youtube no id", "https://www.youtube.com/feed/subscriptions", YouTube, ""},
		{"youtube channel", "https://www.youtube.com/@GopherChannel/videos", YouTube, ""},
		{"youtube playlist", "https://www.youtube.com/playlist?list=PLabcdefghijklmnop", YouTube, ""},
		{"youtube short bad id", "https://youtu.be/tooshort", YouTube, ""},
		{"generic blog", "https://blog.example.com/posts/go-generics", Generic, ""},
		{"generic reddit-lookalike", "https://notreddit.com/comments/abc", Generic, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, id, err := Classify(tt.url)
			if err != nil {
				t.Fatalf("Classify(%q): %v", tt.url, err)
			}
			if cat != tt.category {
				t.Errorf("category = %v, want %v", cat, tt.category)
			}
			if id != tt.id {
				t.Errorf("id = %q, want %q", id, tt.id)
			}
		})
	}
}

func TestClassifyInvalid(t *testing.T) {
	// WHAT: Malformed and relative URLs return ErrInvalidURL.
	for _, raw := range []string{"", "not a url", "/relative/path", "://missing"} {
		if _, _, err := Classify(raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Classify(%q) err = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	// WHAT: Same input always yields the same result.
	const u = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	cat1, id1, _ := Classify(u)
	for i := 0; i < 10; i++ {
		cat, id, _ := Classify(u)
		if cat != cat1 || id != id1 {
			t.Fatalf("non-deterministic: (%v,%q) vs (%v,%q)", cat, id, cat1, id1)
		}
	}
}

func TestCategoryString(t *testing.T) {
	for cat, want := range map[Category]string{
		Generic:    "generic",
		Reddit:     "reddit",
		HackerNews: "hackernews",
		YouTube:    "youtube",
	} {
		if got := cat.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", cat, got, want)
		}
	}
}
