package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
)

type fakeTool struct {
	name   string
	result string
	limit  int
	err    error
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake tool " + f.name }
func (f *fakeTool) ResultLimit() int    { return f.limit }

func (f *fakeTool) Invoke(ctx context.Context, query string) (string, error) {
	return f.result, f.err
}

func TestNewRegistry_Selection(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ToolsConfig
		want []string
	}{
		{"all", config.ToolsConfig{WebSearch: true, Arxiv: true, Wikipedia: true},
			[]string{"Web_Search", "Arxiv_Search", "Wikipedia_Search"}},
		{"web only", config.ToolsConfig{WebSearch: true}, []string{"Web_Search"}},
		{"none", config.ToolsConfig{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.cfg)
			got := r.Names()
			if len(got) != len(tt.want) {
				t.Fatalf("names = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("names[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistryWith(&fakeTool{name: "Web_Search"})

	if _, err := r.Lookup("Web_Search"); err != nil {
		t.Errorf("Lookup(Web_Search) error: %v", err)
	}

	_, err := r.Lookup("Nope")
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("error = %v, want ErrUnknownTool", err)
	}
}

func TestRegistry_RegisterDuplicateIgnored(t *testing.T) {
	a := &fakeTool{name: "Web_Search", result: "first"}
	b := &fakeTool{name: "Web_Search", result: "second"}
	r := NewRegistryWith(a, b)

	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
	got, _ := r.Lookup("Web_Search")
	if got != Tool(a) {
		t.Error("duplicate registration should not replace the original")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a longer string", 7, "this is"},
		{"", 5, ""},
		{"no limit", 0, "no limit"},
		{"héllo wörld", 5, "héllo"},
	}

	for _, tt := range tests {
		got := Truncate(tt.input, tt.limit)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
		}
	}
}

func TestTruncate_NeverExceedsLimit(t *testing.T) {
	long := strings.Repeat("观察结果 observation ", 200)
	for _, limit := range []int{1, 10, 100, 1000} {
		got := Truncate(long, limit)
		if n := len([]rune(got)); n > limit {
			t.Errorf("Truncate with limit %d returned %d characters", limit, n)
		}
	}
}
