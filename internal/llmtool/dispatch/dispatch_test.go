package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/registry"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/reqctx"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

func newDispatcher() (*Dispatcher, *registry.Registry, *reqctx.Registry) {
	tools := registry.New()
	reqs := reqctx.New()
	return New(tools, reqs), tools, reqs
}

func TestInvoke_UnknownTool(t *testing.T) {
	d, _, _ := newDispatcher()
	result := d.Invoke(context.Background(), "req-1", "nonexistent", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, string(KindDocumentNotFound))
}

func TestInvoke_NonMutatingToolRunsImmediately(t *testing.T) {
	d, tools, _ := newDispatcher()
	tools.Register(registry.ToolDefinition{
		Name: "list_documents",
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			return []string{"doc-1"}, nil
		},
	})

	result := d.Invoke(context.Background(), "req-1", "list_documents", nil)
	require.True(t, result.Success)
	assert.Equal(t, []string{"doc-1"}, result.Payload)
}

func TestInvoke_MutatingToolWaitsForConfirmation(t *testing.T) {
	d, tools, reqs := newDispatcher()
	called := false
	tools.Register(registry.ToolDefinition{
		Name:     "edit_document",
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			called = true
			return "edited", nil
		},
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		reqs.Resolve("req-1", reqctx.DecisionApproved)
	}()

	result := d.Invoke(context.Background(), "req-1", "edit_document", nil)
	require.True(t, result.Success)
	assert.True(t, called)
}

func TestInvoke_MutatingToolRejected(t *testing.T) {
	d, tools, reqs := newDispatcher()
	called := false
	tools.Register(registry.ToolDefinition{
		Name:     "edit_document",
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			called = true
			return "edited", nil
		},
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		reqs.Resolve("req-1", reqctx.DecisionRejected)
	}()

	result := d.Invoke(context.Background(), "req-1", "edit_document", nil)
	assert.False(t, result.Success)
	assert.False(t, called)
	assert.Contains(t, result.Error, "rejected")
}

func TestInvoke_CancelledRequestShortCircuits(t *testing.T) {
	d, tools, reqs := newDispatcher()
	called := false
	tools.Register(registry.ToolDefinition{
		Name: "list_documents",
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			called = true
			return nil, nil
		},
	})

	reqs.BeginRequest(context.Background(), "req-1")
	reqs.Cancel("req-1")

	result := d.Invoke(context.Background(), "req-1", "list_documents", nil)
	assert.False(t, result.Success)
	assert.False(t, called)
}

func TestInvoke_HandlerErrorClassification(t *testing.T) {
	d, tools, _ := newDispatcher()
	tools.Register(registry.ToolDefinition{
		Name: "read_document",
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			return nil, apperr.NewNotFound("document", "missing-id")
		},
	})

	result := d.Invoke(context.Background(), "req-1", "read_document", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, string(KindDocumentNotFound))
}

func TestClassify_MapsValidationToInvalidParameter(t *testing.T) {
	err := classify(apperr.NewValidation("bad field"))
	assert.Equal(t, KindInvalidParameter, err.Kind)
}

func TestClassify_DefaultsToService(t *testing.T) {
	err := classify(errors.New("boom"))
	assert.Equal(t, KindService, err.Kind)
}
