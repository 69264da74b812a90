package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/document"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type DocumentHandler struct {
	svc *document.Service
}

type createDocumentRequest struct {
	ModuleID     string `json:"module_id"`
	SessionID    string `json:"session_id"`
	TemplateID   string `json:"template_id"`
	DocumentType string `json:"document_type" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Path         string `json:"path" binding:"required"`
	Content      string `json:"content"`
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	created, err := h.svc.Create(document.Document{
		CampaignID:   c.Param("id"),
		ModuleID:     req.ModuleID,
		SessionID:    req.SessionID,
		TemplateID:   req.TemplateID,
		DocumentType: req.DocumentType,
		Title:        req.Title,
	}, req.Path, []byte(req.Content))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *DocumentHandler) List(c *gin.Context) {
	list, err := h.svc.ListFiltered(c.Param("id"), c.Query("level"), c.Query("module_id"), c.Query("session_id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

func (h *DocumentHandler) ListByModule(c *gin.Context) {
	list, err := h.svc.ListByModule(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

func (h *DocumentHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Param("id"), c.Query("q"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

func (h *DocumentHandler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(got))
}

func (h *DocumentHandler) ReadContent(c *gin.Context) {
	content, err := h.svc.ReadContent(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"content": string(content)}))
}

func (h *DocumentHandler) UpdateContent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.UpdateContent(c.Param("id"), body); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "updated": true}))
}

func (h *DocumentHandler) Complete(c *gin.Context) {
	if err := h.svc.Complete(c.Param("id")); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "completed": true}))
}
