package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	webSearchName        = "Web_Search"
	webSearchDescription = "Useful for searching the web for current information"
	webSearchEndpoint    = "https://lite.duckduckgo.com/lite/"
	webSearchMaxResults  = 5
	webSearchResultLimit = 2000
)

// ddgRateLimit enforces a global limit of one query per second across all
// WebSearch instances and goroutines. The lite endpoint bans faster clients.
var ddgRateLimit struct {
	mu   sync.Mutex
	last time.Time
}

// WebSearch queries DuckDuckGo's lite HTML interface and returns the result
// snippets as plain text.
type WebSearch struct {
	client   *http.Client
	endpoint string
}

// NewWebSearch creates a web search tool using the given HTTP client.
func NewWebSearch(client *http.Client) *WebSearch {
	return &WebSearch{client: client, endpoint: webSearchEndpoint}
}

// NewWebSearchWithEndpoint overrides the search endpoint, for tests.
func NewWebSearchWithEndpoint(client *http.Client, endpoint string) *WebSearch {
	return &WebSearch{client: client, endpoint: endpoint}
}

func (w *WebSearch) Name() string        { return webSearchName }
func (w *WebSearch) Description() string { return webSearchDescription }
func (w *WebSearch) ResultLimit() int    { return webSearchResultLimit }

// Invoke runs the query and returns up to webSearchMaxResults snippets.
func (w *WebSearch) Invoke(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query is empty")
	}

	if err := waitForRateLimit(ctx); err != nil {
		return "", err
	}

	formData := url.Values{}
	formData.Set("q", query)

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, strings.NewReader(formData.Encode()))
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = w.client.Do(req)
		if err != nil {
			return "", err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay each time up to 30s.
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	results := parseLiteResults(string(body))
	if len(results) == 0 {
		return "No good search results found.", nil
	}
	return strings.Join(results, "\n\n"), nil
}

func waitForRateLimit(ctx context.Context) error {
	ddgRateLimit.mu.Lock()
	if wait := time.Until(ddgRateLimit.last.Add(time.Second)); wait > 0 {
		ddgRateLimit.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		ddgRateLimit.mu.Lock()
	}
	ddgRateLimit.last = time.Now()
	ddgRateLimit.mu.Unlock()
	return nil
}

var (
	liteLinkPattern    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	liteLinkPatternAlt = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	liteSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>([^<]+(?:<[^>]+>[^<]*</[^>]+>)*[^<]*)</td>`)
)

// parseLiteResults extracts "title: snippet (url)" lines from the lite HTML
// page. The page is simple enough that regex extraction is reliable.
func parseLiteResults(html string) []string {
	matches := liteLinkPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		matches = liteLinkPatternAlt.FindAllStringSubmatch(html, -1)
	}
	snippetMatches := liteSnippetPattern.FindAllStringSubmatch(html, -1)

	var results []string
	for i, match := range matches {
		if len(match) < 3 {
			continue
		}
		urlStr := strings.TrimSpace(match[1])
		title := cleanHTML(strings.TrimSpace(match[2]))
		if urlStr == "" || title == "" {
			continue
		}

		snippet := ""
		if i < len(snippetMatches) && len(snippetMatches[i]) > 1 {
			snippet = cleanHTML(snippetMatches[i][1])
		}

		if snippet != "" {
			results = append(results, fmt.Sprintf("%s: %s (%s)", title, snippet, urlStr))
		} else {
			results = append(results, fmt.Sprintf("%s (%s)", title, urlStr))
		}
		if len(results) >= webSearchMaxResults {
			break
		}
	}
	return results
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func cleanHTML(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	replacements := []struct{ from, to string }{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", `"`},
		{"&#x27;", "'"},
		{"&#39;", "'"},
		{"&nbsp;", " "},
	}
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return strings.TrimSpace(s)
}
