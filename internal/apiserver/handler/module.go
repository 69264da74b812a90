package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/module"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type ModuleHandler struct {
	svc *module.Service
}

type createModuleRequest struct {
	Name       string `json:"name" binding:"required"`
	ModuleType string `json:"module_type"`
}

func (h *ModuleHandler) Create(c *gin.Context) {
	var req createModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	created, err := h.svc.Create(module.Module{
		CampaignID: c.Param("id"),
		Name:       req.Name,
		ModuleType: req.ModuleType,
	})
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *ModuleHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

func (h *ModuleHandler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(got))
}

type reorderRequest struct {
	CampaignID  string `json:"campaign_id" binding:"required"`
	NewPosition int    `json:"new_position"`
}

func (h *ModuleHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.Reorder(req.CampaignID, c.Param("id"), req.NewPosition); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "position": strconv.Itoa(req.NewPosition)}))
}
