package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/player"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type PlayerHandler struct {
	svc *player.Service
}

type joinRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

func (h *PlayerHandler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.Join(c.Param("id"), req.PlayerID); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"campaign_id": c.Param("id"), "player_id": req.PlayerID}))
}

func (h *PlayerHandler) ListByCampaign(c *gin.Context) {
	list, err := h.svc.ListByCampaign(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}
