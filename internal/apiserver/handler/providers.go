package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

// ProvidersHandler exposes which configured LLM providers are actually
// reachable, backed by provider.ProbeAll.
type ProvidersHandler struct {
	registry *provider.Registry
}

// List probes every registered provider with its default (environment
// derived) config and returns the ones that answered.
func (h *ProvidersHandler) List(c *gin.Context) {
	capabilities := provider.ProbeAll(c.Request.Context(), h.registry)
	c.JSON(http.StatusOK, response.OK(capabilities))
}
