package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one item of an RSS or Atom feed
type Entry struct {
	Title     string
	Link      string
	Published *time.Time
}

// Reader lists the entries of a feed
type Reader interface {
	Fetch(ctx context.Context, url string, limit int) ([]Entry, error)
}

type gofeedReader struct {
	parser *gofeed.Parser
}

// NewReader creates a Reader backed by gofeed
func NewReader(timeout time.Duration, userAgent string) Reader {
	parser := gofeed.NewParser()
	if timeout > 0 {
		parser.Client = &http.Client{Timeout: timeout}
	}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &gofeedReader{parser: parser}
}

// Fetch returns up to limit entries that carry a link, in feed order.
// Duplicate links are skipped. A limit of 0 means no limit.
func (r *gofeedReader) Fetch(ctx context.Context, url string, limit int) ([]Entry, error) {
	feed, err := r.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	seen := make(map[string]struct{}, len(feed.Items))

	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		entries = append(entries, Entry{
			Title:     item.Title,
			Link:      link,
			Published: item.PublishedParsed,
		})
		if limit > 0 && len(entries) >= limit {
			break
		}
	}

	return entries, nil
}
