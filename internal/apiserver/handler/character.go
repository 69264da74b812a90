package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/character"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type CharacterHandler struct {
	svc *character.Service
}

type createCharacterRequest struct {
	CampaignID    string         `json:"campaign_id"`
	PlayerID      string         `json:"player_id"`
	CharacterName string         `json:"character_name" binding:"required"`
	IsNPC         bool           `json:"is_npc"`
	InitialData   map[string]any `json:"initial_data"`
}

func (h *CharacterHandler) Create(c *gin.Context) {
	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	created, err := h.svc.Create(character.Character{
		CampaignID:    req.CampaignID,
		PlayerID:      req.PlayerID,
		CharacterName: req.CharacterName,
		IsNPC:         req.IsNPC,
	}, req.InitialData)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *CharacterHandler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(got))
}

type levelUpRequest struct {
	ClassName     string                     `json:"class_name" binding:"required"`
	HitDieValue   int                        `json:"hit_die_value" binding:"required"`
	HPRoll        *int                       `json:"hp_roll"`
	Scores        character.AbilityScores    `json:"scores"`
	SubclassChoice string                    `json:"subclass_choice"`
	Feat          string                     `json:"feat"`
	ASI           []character.AbilityIncrease `json:"asi"`
}

func (h *CharacterHandler) LevelUp(c *gin.Context) {
	var req levelUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	opts := character.LevelUpOptions{
		ClassName:      req.ClassName,
		SubclassChoice: req.SubclassChoice,
		HPMethod:       character.HpGainMethod{Roll: req.HPRoll, Average: req.HPRoll == nil},
	}
	if req.Feat != "" || len(req.ASI) > 0 {
		opts.AsiOrFeat = &character.AsiOrFeat{Feat: req.Feat, ASI: req.ASI}
	}
	v, err := h.svc.LevelUp(c.Param("id"), opts, req.HitDieValue, req.Scores, nil, nil)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(v))
}

type addInventoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

func (h *CharacterHandler) AddInventoryItem(c *gin.Context) {
	var req addInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	item := character.InventoryItem{Name: req.Name, Quantity: req.Quantity, Notes: req.Notes}
	if err := h.svc.AddInventoryItem(c.Param("id"), item); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "added": true}))
}

func (h *CharacterHandler) RemoveInventoryItem(c *gin.Context) {
	quantity := 1
	if q := c.Query("quantity"); q != "" {
		if parsed, err := parseQueryInt(q); err == nil {
			quantity = parsed
		}
	}
	if err := h.svc.RemoveInventoryItem(c.Param("id"), c.Param("name"), quantity); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "removed": true}))
}

func (h *CharacterHandler) SetEquipped(c *gin.Context) {
	var req struct {
		Equipped bool `json:"equipped"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.SetEquipped(c.Param("id"), c.Param("name"), req.Equipped); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "equipped": req.Equipped}))
}

func (h *CharacterHandler) SetCurrency(c *gin.Context) {
	var req character.Currency
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	if err := h.svc.SetCurrency(c.Param("id"), req); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "currency": req}))
}
