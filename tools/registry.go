package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// ErrUnknownTool is returned by Execute when no tool answers to the name.
var ErrUnknownTool = errors.New("unknown tool")

// Registry maps tool names to implementations and tracks the sources recorded
// by whichever tool most recently ran.
//
// A Registry is not safe for concurrent use. Construct one per in-flight
// query; sharing an instance across concurrently executing queries would
// interleave their sources.
type Registry struct {
	byName  map[string]Tool
	order   []string
	sources []Source
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register stores a tool keyed by its declared name. Registering the same
// name again silently replaces the earlier tool; the definition keeps its
// original position.
func (r *Registry) Register(t Tool) {
	name := t.Definition().Name
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = t
}

// Definitions returns one definition per registered tool, in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Definition())
	}
	return out
}

// ToolParams converts the registered definitions to request parameters.
func (r *Registry) ToolParams() []anthropic.ToolUnionParam {
	defs := r.Definitions()
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: d.InputSchema,
		}})
	}
	return out
}

// Execute dispatches to the named tool. Unknown names fail with
// ErrUnknownTool; handler errors propagate unchanged to the caller, which is
// the layer that decides how to degrade them.
func (r *Registry) Execute(name string, input json.RawMessage) (string, error) {
	tool, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	out, err := tool.Execute(input)
	if tracker, ok := tool.(sourceTracker); ok {
		// Last tool to run wins; sources are replaced, never accumulated.
		r.sources = tracker.lastSources()
	}
	return out, err
}

// LastSources returns the sources recorded by the most recent tool execution.
// When several tools run in one round only the last one's sources survive;
// known limitation until multi-tool rounds need per-call attribution.
func (r *Registry) LastSources() []Source {
	return r.sources
}

// ResetSources clears source tracking. Called once at the start of each
// independent query, never mid-query.
func (r *Registry) ResetSources() {
	r.sources = nil
}
