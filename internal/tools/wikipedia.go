package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	wikipediaName        = "Wikipedia_Search"
	wikipediaDescription = "Useful for searching general knowledge information on Wikipedia"
	wikipediaEndpoint    = "https://en.wikipedia.org/w/api.php"
	wikipediaTopK        = 2
	wikipediaResultLimit = 1000
)

// Wikipedia searches the MediaWiki action API: one request to find the top
// matching page titles, one more for their intro extracts. At most
// wikipediaTopK pages are consulted per query.
type Wikipedia struct {
	client   *http.Client
	endpoint string
}

func NewWikipedia(client *http.Client) *Wikipedia {
	return &Wikipedia{client: client, endpoint: wikipediaEndpoint}
}

// NewWikipediaWithEndpoint overrides the API endpoint, for tests.
func NewWikipediaWithEndpoint(client *http.Client, endpoint string) *Wikipedia {
	return &Wikipedia{client: client, endpoint: endpoint}
}

func (w *Wikipedia) Name() string        { return wikipediaName }
func (w *Wikipedia) Description() string { return wikipediaDescription }
func (w *Wikipedia) ResultLimit() int    { return wikipediaResultLimit }

// Invoke returns "Page:/Summary:" blocks for the top matching articles.
func (w *Wikipedia) Invoke(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query is empty")
	}

	titles, err := w.searchTitles(ctx, query)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "No good Wikipedia Search Result was found.", nil
	}

	var parts []string
	for _, title := range titles {
		summary, err := w.fetchExtract(ctx, title)
		if err != nil {
			return "", err
		}
		if summary == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("Page: %s\nSummary: %s", title, summary))
	}
	if len(parts) == 0 {
		return "No good Wikipedia Search Result was found.", nil
	}

	return Truncate(strings.Join(parts, "\n\n"), wikipediaResultLimit), nil
}

func (w *Wikipedia) searchTitles(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", wikipediaTopK))
	params.Set("format", "json")

	body, err := w.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, hit := range gjson.GetBytes(body, "query.search.#.title").Array() {
		titles = append(titles, hit.String())
		if len(titles) >= wikipediaTopK {
			break
		}
	}
	return titles, nil
}

func (w *Wikipedia) fetchExtract(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("titles", title)
	params.Set("format", "json")

	body, err := w.get(ctx, params)
	if err != nil {
		return "", err
	}

	// The pages object is keyed by numeric page id, so take the first value.
	var extract string
	gjson.GetBytes(body, "query.pages").ForEach(func(_, page gjson.Result) bool {
		extract = page.Get("extract").String()
		return false
	})
	return strings.TrimSpace(extract), nil
}

func (w *Wikipedia) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "searchagent/1.0 (https://github.com/Varun2010080023/Lang-chain-Search-engine)")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
