// Package registry holds the fixed set of tools exposed to the LLM
// runtime: document access, template instantiation, catalog lookups,
// and character mutations, each carrying a JSON-schema parameter
// description instead of the teacher's flat type-string form, since
// several tools here need nested object/array parameters.
package registry

import (
	"context"
	"sync"
)

// ParameterDef describes one named parameter accepted by a tool. Type
// is a JSON-schema type name ("string", "number", "object", "array",
// "boolean"); Schema carries the full nested schema fragment when Type
// is "object" or "array" and properties need their own description.
type ParameterDef struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Schema      map[string]any
}

// ToolHandler executes one tool invocation against an MCP-style
// request context and the raw parameter map the model supplied.
type ToolHandler func(ctx context.Context, params map[string]any) (any, error)

// ToolDefinition is one registered tool: its name, description,
// parameter schema, whether invoking it mutates state (and therefore
// requires confirmation per spec.md §5), and its handler.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  []ParameterDef
	Mutating    bool
	Handler     ToolHandler
}

// JSONSchema renders a tool's parameters as the
// `{required, properties{type, description}}` shape the model-facing
// API expects.
func (t ToolDefinition) JSONSchema() map[string]any {
	properties := make(map[string]any, len(t.Parameters))
	var required []string
	for _, p := range t.Parameters {
		prop := map[string]any{"type": p.Type, "description": p.Description}
		for k, v := range p.Schema {
			prop[k] = v
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{"type": "object", "properties": properties, "required": required}
}

// Registry is the process-wide tool catalog. Tool names are globally
// unique; re-registering a name overrides the prior definition (last
// write wins) and keeps the name's original position in List order.
// An override is not logged.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]ToolDefinition
	order []string
}

func New() *Registry {
	return &Registry{tools: make(map[string]ToolDefinition)}
}

func (r *Registry) Register(def ToolDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = def
}

func (r *Registry) Get(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.tools[name]
	return def, ok
}

// List returns every registered tool definition in registration order.
func (r *Registry) List() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
