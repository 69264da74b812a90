package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/dispatch"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/registry"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/reqctx"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type ToolsHandler struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	requests   *reqctx.Registry
	active     *reqctx.ActiveCampaign
}

type toolListing struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Mutating    bool           `json:"mutating"`
	Parameters  map[string]any `json:"parameters"`
}

// List returns every registered tool's name, description, and JSON
// schema, the same shape the MCP server and in-process callers both
// read from the registry.
func (h *ToolsHandler) List(c *gin.Context) {
	defs := h.registry.List()
	out := make([]toolListing, 0, len(defs))
	for _, def := range defs {
		out = append(out, toolListing{
			Name:        def.Name,
			Description: def.Description,
			Mutating:    def.Mutating,
			Parameters:  def.JSONSchema(),
		})
	}
	c.JSON(200, response.OK(out))
}

type invokeRequest struct {
	RequestID string         `json:"request_id" binding:"required"`
	Params    map[string]any `json:"params"`
}

// Invoke dispatches a tool call by name. Mutating tools block inside
// Invoke until the request's confirmation resolves or times out; the
// caller is expected to have already begun the request via
// reqctx.Registry.BeginRequest and to resolve the confirmation through
// a separate call to Confirm.
func (h *ToolsHandler) Invoke(c *gin.Context) {
	var req invokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	result := h.dispatcher.Invoke(c.Request.Context(), req.RequestID, c.Param("name"), req.Params)
	c.JSON(200, response.OK(result))
}

type confirmRequest struct {
	Approved bool `json:"approved"`
}

// Confirm resolves a pending mutating-tool confirmation for a request id.
func (h *ToolsHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	decision := reqctx.DecisionRejected
	if req.Approved {
		decision = reqctx.DecisionApproved
	}
	h.requests.Resolve(c.Param("requestId"), decision)
	c.JSON(200, response.OK(gin.H{"request_id": c.Param("requestId"), "approved": req.Approved}))
}

// Cancel aborts an in-flight request, unblocking any tool call or
// confirmation wait keyed to it.
func (h *ToolsHandler) Cancel(c *gin.Context) {
	h.requests.Cancel(c.Param("requestId"))
	c.JSON(200, response.OK(gin.H{"request_id": c.Param("requestId"), "cancelled": true}))
}

type setActiveCampaignRequest struct {
	CampaignID string `json:"campaign_id"`
}

// SetActiveCampaign scopes every subsequent LLM tool call to a
// campaign, backing the "activate campaign" endpoint. This lives on
// ToolsHandler rather than the campaign service since activation is a
// tool-runtime concept (which campaign the model is currently working
// against), not a campaign lifecycle transition.
func (h *ToolsHandler) SetActiveCampaign(c *gin.Context) {
	id := c.Param("id")
	var req setActiveCampaignRequest
	_ = c.ShouldBindJSON(&req)
	if id == "" {
		id = req.CampaignID
	}
	h.active.Set(id)
	c.JSON(200, response.OK(gin.H{"active_campaign_id": id}))
}
