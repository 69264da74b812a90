package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/campaign"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type CampaignHandler struct {
	svc *campaign.Service
}

type createCampaignRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CampaignHandler) Create(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	created, err := h.svc.Create(req.Name)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *CampaignHandler) List(c *gin.Context) {
	list, err := h.svc.List()
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

func (h *CampaignHandler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(got))
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *CampaignHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.Transition(c.Param("id"), req.Status); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "status": req.Status}))
}

func (h *CampaignHandler) Archive(c *gin.Context) {
	if err := h.svc.Archive(c.Param("id")); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "archived": true}))
}

func (h *CampaignHandler) Unarchive(c *gin.Context) {
	if err := h.svc.Unarchive(c.Param("id")); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "archived": false}))
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "deleted": true}))
}
