package tools

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	arxivName        = "Arxiv_Search"
	arxivDescription = "Useful for searching academic papers on Arxiv"
	arxivEndpoint    = "http://export.arxiv.org/api/query"
	arxivTopK        = 2
	arxivResultLimit = 1000
)

// Arxiv searches the arXiv Atom API for academic papers. It consults at most
// arxivTopK papers per query; that bound is enforced server-side via the
// max_results parameter.
type Arxiv struct {
	client   *http.Client
	endpoint string
}

func NewArxiv(client *http.Client) *Arxiv {
	return &Arxiv{client: client, endpoint: arxivEndpoint}
}

// NewArxivWithEndpoint overrides the API endpoint, for tests.
func NewArxivWithEndpoint(client *http.Client, endpoint string) *Arxiv {
	return &Arxiv{client: client, endpoint: endpoint}
}

func (a *Arxiv) Name() string        { return arxivName }
func (a *Arxiv) Description() string { return arxivDescription }
func (a *Arxiv) ResultLimit() int    { return arxivResultLimit }

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// Invoke queries the Atom API and formats the top entries as plain text.
func (a *Arxiv) Invoke(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query is empty")
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", arxivTopK))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", fmt.Errorf("parse arxiv feed: %w", err)
	}

	if len(feed.Entries) == 0 {
		return "No good Arxiv result was found.", nil
	}

	var parts []string
	for i, entry := range feed.Entries {
		if i >= arxivTopK {
			break
		}
		names := make([]string, 0, len(entry.Authors))
		for _, au := range entry.Authors {
			names = append(names, au.Name)
		}
		parts = append(parts, fmt.Sprintf(
			"Published: %s\nTitle: %s\nAuthors: %s\nSummary: %s",
			strings.TrimSpace(entry.Published),
			collapseWhitespace(entry.Title),
			strings.Join(names, ", "),
			collapseWhitespace(entry.Summary),
		))
	}

	return Truncate(strings.Join(parts, "\n\n"), arxivResultLimit), nil
}

// collapseWhitespace flattens the newline-wrapped text arXiv returns inside
// title and summary elements.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
