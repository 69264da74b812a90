package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndList_PreservesOrder(t *testing.T) {
	reg := New()
	reg.Register(ToolDefinition{Name: "list_documents"})
	reg.Register(ToolDefinition{Name: "edit_document", Mutating: true})
	reg.Register(ToolDefinition{Name: "read_document"})

	defs := reg.List()
	require.Len(t, defs, 3)
	assert.Equal(t, []string{"list_documents", "edit_document", "read_document"}, []string{defs[0].Name, defs[1].Name, defs[2].Name})
}

func TestRegistry_RegisterOverride_KeepsOriginalPosition(t *testing.T) {
	reg := New()
	reg.Register(ToolDefinition{Name: "edit_document", Description: "v1"})
	reg.Register(ToolDefinition{Name: "read_document"})
	reg.Register(ToolDefinition{Name: "edit_document", Description: "v2"})

	defs := reg.List()
	require.Len(t, defs, 2)
	assert.Equal(t, "edit_document", defs[0].Name)
	assert.Equal(t, "v2", defs[0].Description)
}

func TestRegistry_Get(t *testing.T) {
	reg := New()
	reg.Register(ToolDefinition{Name: "list_templates"})

	def, ok := reg.Get("list_templates")
	assert.True(t, ok)
	assert.Equal(t, "list_templates", def.Name)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestToolDefinition_JSONSchema(t *testing.T) {
	def := ToolDefinition{
		Name: "create_user_document",
		Parameters: []ParameterDef{
			{Name: "title", Type: "string", Description: "document title", Required: true},
			{Name: "tags", Type: "array", Schema: map[string]any{"items": map[string]any{"type": "string"}}},
		},
	}

	schema := def.JSONSchema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"title"}, schema["required"])

	properties := schema["properties"].(map[string]any)
	title := properties["title"].(map[string]any)
	assert.Equal(t, "string", title["type"])
	assert.Equal(t, "document title", title["description"])

	tags := properties["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Contains(t, tags, "items")
}

func TestToolHandler_Invoked(t *testing.T) {
	called := false
	handler := ToolHandler(func(ctx context.Context, params map[string]any) (any, error) {
		called = true
		return params["name"], nil
	})

	result, err := handler(context.Background(), map[string]any{"name": "ok"})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.True(t, called)
}
