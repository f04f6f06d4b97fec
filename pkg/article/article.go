// Package article fetches a web page and extracts its readable text so a
// page can be fed straight into a lookup.
package article

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/go-shiori/go-readability"
)

// maxBodySize caps fetched HTML to keep untrusted URLs from exhausting
// memory.
const maxBodySize = 10 * 1024 * 1024

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby strips ruby annotations (<rt>, <rp>) from HTML. Readability
// otherwise extracts furigana inline, duplicating every annotated word
// (e.g. 漢字 becomes 漢字かんじ).
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	return reRP.ReplaceAll(cleaned, []byte{})
}

// Article is the extracted readable content of a page.
type Article struct {
	Title string
	Text  string
}

// Fetch downloads rawURL and extracts its readable text.
func Fetch(ctx context.Context, rawURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("article: build request: %w", err)
	}
	// Some hosts reject requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("article: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article: fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("article: read body: %w", err)
	}
	if len(body) >= maxBodySize {
		return nil, fmt.Errorf("article: body exceeds %d bytes", maxBodySize)
	}

	return Extract(body, rawURL)
}

// Extract runs readability over raw HTML. Exported separately so tests and
// offline callers can skip the network.
func Extract(html []byte, rawURL string) (*Article, error) {
	html = SanitizeRuby(html)

	parsed, _ := url.Parse(rawURL)
	a, err := readability.FromReader(bytes.NewReader(html), parsed)
	if err != nil {
		return nil, fmt.Errorf("article: extract: %w", err)
	}
	return &Article{Title: a.Title, Text: a.TextContent}, nil
}
