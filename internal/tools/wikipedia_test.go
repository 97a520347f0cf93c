package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func wikipediaStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("list") == "search":
			fmt.Fprint(w, `{"query":{"search":[{"title":"Go (programming language)"},{"title":"Goroutine"},{"title":"Gopher"}]}}`)
		case q.Get("prop") == "extracts":
			title := q.Get("titles")
			fmt.Fprintf(w, `{"query":{"pages":{"12345":{"title":%q,"extract":"Intro extract for %s."}}}}`, title, title)
		default:
			t.Errorf("unexpected request: %s", r.URL.RawQuery)
		}
	}))
}

func TestWikipedia_Invoke(t *testing.T) {
	srv := wikipediaStub(t)
	defer srv.Close()

	wk := NewWikipediaWithEndpoint(srv.Client(), srv.URL)
	got, err := wk.Invoke(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}

	if !strings.Contains(got, "Page: Go (programming language)") {
		t.Errorf("first page missing: %q", got)
	}
	if !strings.Contains(got, "Summary: Intro extract for Go (programming language).") {
		t.Errorf("first summary missing: %q", got)
	}
	if !strings.Contains(got, "Page: Goroutine") {
		t.Errorf("second page missing: %q", got)
	}
	// Only the top two pages are consulted even when search returns more.
	if strings.Contains(got, "Gopher") {
		t.Errorf("third page should not be consulted: %q", got)
	}
}

func TestWikipedia_TruncatesToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("list") == "search" {
			fmt.Fprint(w, `{"query":{"search":[{"title":"Long"}]}}`)
			return
		}
		fmt.Fprintf(w, `{"query":{"pages":{"1":{"extract":%q}}}}`, strings.Repeat("long extract ", 500))
	}))
	defer srv.Close()

	wk := NewWikipediaWithEndpoint(srv.Client(), srv.URL)
	got, err := wk.Invoke(context.Background(), "long article")
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if len([]rune(got)) > wikipediaResultLimit {
		t.Errorf("result length %d exceeds limit %d", len([]rune(got)), wikipediaResultLimit)
	}
}

func TestWikipedia_NoHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"search":[]}}`)
	}))
	defer srv.Close()

	wk := NewWikipediaWithEndpoint(srv.Client(), srv.URL)
	got, err := wk.Invoke(context.Background(), "zxqjv")
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if got != "No good Wikipedia Search Result was found." {
		t.Errorf("result = %q, want no-result text", got)
	}
}

func TestWikipedia_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	wk := NewWikipediaWithEndpoint(srv.Client(), srv.URL)
	if _, err := wk.Invoke(context.Background(), "x"); err == nil {
		t.Error("expected error for http 502")
	}
}
