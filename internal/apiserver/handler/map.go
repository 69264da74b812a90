package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/display"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/fog"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/light"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/mapsvc"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/token"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type MapHandler struct {
	svc *mapsvc.Service
}

type createMapRequest struct {
	CampaignID     string `json:"campaign_id" binding:"required"`
	ModuleID       string `json:"module_id"`
	DisplayName    string `json:"display_name" binding:"required"`
	StoredFilename string `json:"stored_filename" binding:"required"`
	WidthPx        int    `json:"width_px"`
	HeightPx       int    `json:"height_px"`
}

func (h *MapHandler) Create(c *gin.Context) {
	var req createMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	created, err := h.svc.Create(mapsvc.Map{
		CampaignID:       req.CampaignID,
		ModuleID:         req.ModuleID,
		DisplayName:      req.DisplayName,
		StoredFilename:   req.StoredFilename,
		WidthPx:          req.WidthPx,
		HeightPx:         req.HeightPx,
		OriginalWidthPx:  req.WidthPx,
		OriginalHeightPx: req.HeightPx,
	})
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *MapHandler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(got))
}

func (h *MapHandler) ListByCampaign(c *gin.Context) {
	list, err := h.svc.ListByCampaign(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

type updateGridRequest struct {
	GridType   string  `json:"grid_type" binding:"required"`
	GridSizePx float64 `json:"grid_size_px" binding:"required"`
	OffsetX    float64 `json:"offset_x"`
	OffsetY    float64 `json:"offset_y"`
}

func (h *MapHandler) UpdateGrid(c *gin.Context) {
	var req updateGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.UpdateGrid(c.Param("id"), req.GridType, req.GridSizePx, req.OffsetX, req.OffsetY); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "updated": true}))
}

type TokenHandler struct {
	svc *token.Service
}

type createTokenRequest struct {
	Name          string  `json:"name"`
	Kind          string  `json:"kind" binding:"required"`
	Size          string  `json:"size"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Color         string  `json:"color"`
	ImagePath     string  `json:"image_path"`
	MonsterLink   string  `json:"monster_link"`
	CharacterLink string  `json:"character_link"`
	VisionType    string  `json:"vision_type"`
	VisionRange   float64 `json:"vision_range"`
}

func (h *TokenHandler) Create(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	created, err := h.svc.Create(token.Token{
		MapID:         c.Param("id"),
		Name:          req.Name,
		Kind:          req.Kind,
		Size:          req.Size,
		X:             req.X,
		Y:             req.Y,
		Color:         req.Color,
		ImagePath:     req.ImagePath,
		MonsterLink:   req.MonsterLink,
		CharacterLink: req.CharacterLink,
		VisionType:    req.VisionType,
		VisionRange:   req.VisionRange,
	})
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *TokenHandler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Param("tokenId"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(got))
}

func (h *TokenHandler) ListByMap(c *gin.Context) {
	list, err := h.svc.ListByMap(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

type bulkMoveRequest struct {
	Positions []token.Position `json:"positions" binding:"required"`
}

func (h *TokenHandler) BulkMove(c *gin.Context) {
	var req bulkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.BulkMove(req.Positions); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"moved": len(req.Positions)}))
}

func (h *TokenHandler) SetVisible(c *gin.Context) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.SetVisible(c.Param("tokenId"), req.Visible); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"token_id": c.Param("tokenId"), "visible": req.Visible}))
}

type FogHandler struct {
	svc *fog.Service
}

func (h *FogHandler) ListRevealed(c *gin.Context) {
	list, err := h.svc.ListRevealed(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

type revealRectRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" binding:"required"`
	Height float64 `json:"height" binding:"required"`
}

func (h *FogHandler) RevealRect(c *gin.Context) {
	var req revealRectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	rect, err := h.svc.RevealRect(c.Param("id"), req.X, req.Y, req.Width, req.Height)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(rect))
}

type revealCircleRequest struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius" binding:"required"`
}

func (h *FogHandler) RevealCircle(c *gin.Context) {
	var req revealCircleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	rect, err := h.svc.RevealCircle(c.Param("id"), req.CenterX, req.CenterY, req.Radius)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(rect))
}

func (h *FogHandler) ResetAll(c *gin.Context) {
	if err := h.svc.ResetAll(c.Param("id")); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "reset": true}))
}

type LightHandler struct {
	svc *light.Service
}

type createLightRequest struct {
	Name         string  `json:"name"`
	LightType    string  `json:"light_type" binding:"required"`
	TokenID      string  `json:"token_id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	BrightRadius float64 `json:"bright_radius"`
	DimRadius    float64 `json:"dim_radius"`
	Color        string  `json:"color"`
	Active       bool    `json:"active"`
}

func (h *LightHandler) Create(c *gin.Context) {
	var req createLightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	created, err := h.svc.Create(light.Source{
		MapID:        c.Param("id"),
		TokenID:      req.TokenID,
		Name:         req.Name,
		LightType:    req.LightType,
		X:            req.X,
		Y:            req.Y,
		BrightRadius: req.BrightRadius,
		DimRadius:    req.DimRadius,
		Color:        req.Color,
		Active:       req.Active,
	})
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *LightHandler) ListByMap(c *gin.Context) {
	list, err := h.svc.ListByMap(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

type DisplayHandler struct {
	hub *display.Hub
}

// Stream serves the display surface's event feed over server-sent
// events, mirroring the teacher's chat-completion SSE loop: one frame
// per published event, no polling.
func (h *DisplayHandler) Stream(c *gin.Context) {
	ch, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w gin.ResponseWriter) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("display", event)
			return true
		case <-c.Request.Context().Done():
			return false
		case <-time.After(30 * time.Second):
			c.SSEvent("ping", fmt.Sprintf("%d", time.Now().Unix()))
			return true
		}
	})
}

// Publish lets the DM-side client push a display event (show map, move
// viewport, ping players) that Stream fans out to every connected
// display surface.
func (h *DisplayHandler) Publish(c *gin.Context) {
	var req display.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	req.MapID = c.Param("id")
	h.hub.Publish(req)
	c.JSON(200, response.OK(gin.H{"published": true}))
}
