package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/template"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type TemplateHandler struct {
	svc *template.Service
}

func (h *TemplateHandler) ListActive(c *gin.Context) {
	list, err := h.svc.ListActive()
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

func (h *TemplateHandler) ActiveVersion(c *gin.Context) {
	v, err := h.svc.ActiveVersion(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(v))
}

type createVersionRequest struct {
	Content         string                `json:"content" binding:"required"`
	DocType         string                `json:"doc_type"`
	Level           string                `json:"level"`
	Purpose         string                `json:"purpose"`
	VersionNumber   int                   `json:"version_number"`
	VariablesSchema []template.Variable   `json:"variables_schema"`
	DefaultValues   map[string]any        `json:"default_values"`
	IsActive        bool                  `json:"is_active"`
}

func (h *TemplateHandler) CreateVersion(c *gin.Context) {
	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	v := template.Version{
		DocumentID:      c.Param("id"),
		VersionNumber:   req.VersionNumber,
		Content:         req.Content,
		DocType:         req.DocType,
		Level:           req.Level,
		Purpose:         req.Purpose,
		VariablesSchema: req.VariablesSchema,
		DefaultValues:   req.DefaultValues,
		IsActive:        req.IsActive,
	}
	if err := h.svc.CreateVersion(v); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"document_id": c.Param("id"), "created": true}))
}

type renderRequest struct {
	Variables map[string]any `json:"variables"`
}

func (h *TemplateHandler) Render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	v, err := h.svc.ActiveVersion(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	rendered, err := h.svc.Render(v, req.Variables)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"content": rendered}))
}
