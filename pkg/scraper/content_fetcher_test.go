package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Open Graph Title">
</head>
<body>
  <nav>Home | About | Contact</nav>
  <article>
    <h1>Heading</h1>
    <p>This is the first paragraph of a long article that should be extracted by the fetcher.</p>
    <p>This is the second paragraph, which makes sure the content passes the minimum length check.</p>
    <script>console.log("ignored")</script>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

func TestFetchArticle_ExtractsArticle(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articlePage))
	}))
	defer server.Close()

	fetcher := NewContentFetcher(Config{Timeout: 5 * time.Second, UserAgent: "TestAgent/1.0"})
	article, err := fetcher.FetchArticle(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUA != "TestAgent/1.0" {
		t.Errorf("expected user agent 'TestAgent/1.0', got '%s'", gotUA)
	}
	if article.Title != "Open Graph Title" {
		t.Errorf("expected og title, got '%s'", article.Title)
	}
	if !strings.HasPrefix(article.Text, "Heading This is the first paragraph") {
		t.Errorf("unexpected text: %s", article.Text)
	}
	for _, unwanted := range []string{"console.log", "Home | About", "Copyright"} {
		if strings.Contains(article.Text, unwanted) {
			t.Errorf("expected %q to be stripped, got: %s", unwanted, article.Text)
		}
	}
}

func TestFetchArticle_FallsBackToBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title> Short   Page </title></head><body><p>Just a little text.</p></body></html>`))
	}))
	defer server.Close()

	article, err := NewContentFetcher(Config{}).FetchArticle(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Title != "Short Page" {
		t.Errorf("expected title 'Short Page', got '%s'", article.Title)
	}
	if article.Text != "Just a little text." {
		t.Errorf("expected body text, got '%s'", article.Text)
	}
}

func TestFetchArticle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			},
			check: func(err error) bool { return strings.Contains(err.Error(), "404") },
		},
		{
			name: "empty page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><body><script>var x = 1;</script></body></html>`))
			},
			check: func(err error) bool { return errors.Is(err, ErrNoContent) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewContentFetcher(Config{}).FetchArticle(context.Background(), server.URL)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
