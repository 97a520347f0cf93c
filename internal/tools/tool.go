package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
)

// Tool is a named, described search capability the agent can invoke with a
// plain text query. Results are plain text and bounded by ResultLimit.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, query string) (string, error)
	ResultLimit() int
}

// ErrUnknownTool is returned by Registry.Lookup for a name that was never
// registered for this run.
var ErrUnknownTool = fmt.Errorf("unknown tool")

// Registry is the immutable set of tools active for one run. The selection
// is fixed when the registry is built; nothing is added or removed later.
type Registry struct {
	order  []string
	byName map[string]Tool
}

// NewRegistry builds a registry from the configured tool selection. The
// returned registry may be empty; callers decide whether that is an error.
func NewRegistry(cfg config.ToolsConfig) *Registry {
	client := &http.Client{Timeout: 15 * time.Second}

	r := &Registry{byName: make(map[string]Tool)}
	if cfg.WebSearch {
		r.register(NewWebSearch(client))
	}
	if cfg.Arxiv {
		r.register(NewArxiv(client))
	}
	if cfg.Wikipedia {
		r.register(NewWikipedia(client))
	}
	return r
}

// NewRegistryWith builds a registry from explicit tools, in order. Used by
// tests and by callers that construct tools with custom endpoints.
func NewRegistryWith(ts ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool)}
	for _, t := range ts {
		r.register(t)
	}
	return r
}

func (r *Registry) register(t Tool) {
	if _, dup := r.byName[t.Name()]; dup {
		return
	}
	r.order = append(r.order, t.Name())
	r.byName[t.Name()] = t
}

// Lookup resolves a tool by name. Unrecognized names fail explicitly rather
// than silently no-oping.
func (r *Registry) Lookup(name string) (Tool, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t, nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports how many tools are active.
func (r *Registry) Len() int {
	return len(r.order)
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Truncate caps s at limit characters (runes, so multi-byte text is not cut
// mid-character). A limit of zero or less means no cap.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
