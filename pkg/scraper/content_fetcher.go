package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoContent is returned when a page has no extractable text
var ErrNoContent = errors.New("no content found")

// minContentLen is how much text a selector must yield before it is trusted
const minContentLen = 100

// Article is the readable part of a web page
type Article struct {
	URL   string
	Title string
	Text  string
}

// ContentFetcher downloads a page and extracts its main text
type ContentFetcher interface {
	FetchArticle(ctx context.Context, url string) (*Article, error)
}

type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

type webScraper struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewContentFetcher creates a goquery-backed ContentFetcher
func NewContentFetcher(cfg Config) ContentFetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "SummarizerBot/1.0"
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = 2 * 1024 * 1024
	}

	return &webScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

func (s *webScraper) FetchArticle(ctx context.Context, url string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status code: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	text := extractMainContent(doc)
	if text == "" {
		return nil, ErrNoContent
	}

	return &Article{
		URL:   url,
		Title: extractTitle(doc),
		Text:  text,
	}, nil
}

// extractMainContent tries common article containers before falling back to body
func extractMainContent(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, aside, form, .ad, .advertisement").Remove()

	selectors := []string{
		"article",
		"main",
		"[role=main]",
		".post-content",
		".entry-content",
		".article-body",
		".article-content",
		"#content",
		".content",
	}

	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}
		text := collapseWhitespace(selection.Text())
		if len(text) > minContentLen {
			return text
		}
	}

	return collapseWhitespace(doc.Find("body").Text())
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title
		}
	}
	return collapseWhitespace(doc.Find("title").First().Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
