package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example</title>
  <link>https://example.tld</link>
  <description>Example feed</description>
  <item>
    <title>First</title>
    <link>https://example.tld/first</link>
    <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
  </item>
  <item>
    <title>No link</title>
  </item>
  <item>
    <title>First again</title>
    <link>https://example.tld/first</link>
  </item>
  <item>
    <title>Second</title>
    <link>https://example.tld/second</link>
  </item>
  <item>
    <title>Third</title>
    <link>https://example.tld/third</link>
  </item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssBody))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_SkipsEmptyAndDuplicateLinks(t *testing.T) {
	server := newFeedServer(t)

	entries, err := NewReader(5*time.Second, "TestAgent/1.0").Fetch(context.Background(), server.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"https://example.tld/first",
		"https://example.tld/second",
		"https://example.tld/third",
	}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}
	for i, link := range expected {
		if entries[i].Link != link {
			t.Errorf("entry %d: expected %s, got %s", i, link, entries[i].Link)
		}
	}
	if entries[0].Published == nil {
		t.Error("expected first entry to carry a publish date")
	}
}

func TestFetch_Limit(t *testing.T) {
	server := newFeedServer(t)

	entries, err := NewReader(0, "").Fetch(context.Background(), server.URL, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestFetch_InvalidFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	if _, err := NewReader(0, "").Fetch(context.Background(), server.URL, 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}
