// Package dispatch invokes a registered tool against a decoded request,
// enforcing the confirmation gate for mutating tools and mapping every
// error into the closed tool-layer taxonomy the LLM-facing API exposes.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/registry"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/reqctx"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Kind is the closed tool-layer error taxonomy spec.md §4.6 maps
// apperr kinds into.
type Kind string

const (
	KindDocumentNotFound Kind = "DocumentNotFound"
	KindInvalidParameter Kind = "InvalidParameter"
	KindService          Kind = "Service"
)

// ToolError is a dispatch failure the conversation layer forwards back
// to the model so it can react, never thrown out of band.
type ToolError struct {
	Kind    Kind
	Message string
}

func (e *ToolError) Error() string { return string(e.Kind) + ": " + e.Message }

// classify maps an apperr-tagged error (or any other error) to the
// tool-layer taxonomy.
func classify(err error) *ToolError {
	var notFound *apperr.NotFound
	var validation *apperr.Validation
	var invalidArg *apperr.InvalidArgument
	var invalidData *apperr.InvalidData

	switch {
	case errors.As(err, &notFound):
		return &ToolError{Kind: KindDocumentNotFound, Message: err.Error()}
	case errors.As(err, &validation), errors.As(err, &invalidArg), errors.As(err, &invalidData):
		return &ToolError{Kind: KindInvalidParameter, Message: err.Error()}
	default:
		return &ToolError{Kind: KindService, Message: err.Error()}
	}
}

// ConfirmationTimeout bounds how long a mutating tool call waits for a
// user confirmation before treating it as rejected.
const ConfirmationTimeout = 2 * time.Minute

// Dispatcher executes tool calls against a registry, gating mutating
// tools behind a per-request confirmation.
type Dispatcher struct {
	tools *registry.Registry
	reqs  *reqctx.Registry
}

func New(tools *registry.Registry, reqs *reqctx.Registry) *Dispatcher {
	return &Dispatcher{tools: tools, reqs: reqs}
}

// Result is a tool invocation's outcome, shaped for the model-facing
// API: a success flag plus either the payload or an error string.
type Result struct {
	Success bool
	Payload any
	Error   string
}

// Invoke looks up and runs a tool by name. If the tool mutates state,
// invocation blocks on the per-request confirmation channel first;
// rejection or timeout short-circuits with a failed Result rather than
// calling the handler.
func (d *Dispatcher) Invoke(ctx context.Context, requestID, toolName string, params map[string]any) Result {
	def, ok := d.tools.Get(toolName)
	if !ok {
		return Result{Success: false, Error: classify(apperr.NewNotFound("tool", toolName)).Error()}
	}

	if d.reqs.CheckCancelled(requestID) {
		return Result{Success: false, Error: "request cancelled"}
	}

	if def.Mutating {
		decision := d.reqs.AwaitConfirmation(ctx, requestID, ConfirmationTimeout)
		if decision != reqctx.DecisionApproved {
			return Result{Success: false, Error: "mutation rejected by confirmation gate"}
		}
	}

	payload, err := def.Handler(ctx, params)
	if err != nil {
		return Result{Success: false, Error: classify(err).Error()}
	}
	return Result{Success: true, Payload: payload}
}
