package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/catalog/query"
	"github.com/mimir-dm/mimir-dm-go/internal/catalog/reference"
	"github.com/mimir-dm/mimir-dm-go/internal/catalog/sources"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type CatalogHandler struct {
	query     *query.Service
	reference *reference.Service
	sources   *sources.Service
}

func (h *CatalogHandler) SearchSpells(c *gin.Context) {
	f := query.SpellFilter{
		NameContains: c.Query("name"),
		School:       c.Query("school"),
		Source:       c.Query("source"),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	}
	if lv := c.Query("level"); lv != "" {
		if parsed, err := strconv.Atoi(lv); err == nil {
			f.Level = &parsed
		}
	}
	spells, total, err := h.query.SearchSpells(f)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"spells": spells, "total": total}))
}

func (h *CatalogHandler) SearchMonsters(c *gin.Context) {
	f := query.MonsterFilter{
		NameContains: c.Query("name"),
		Size:         c.Query("size"),
		Type:         c.Query("type"),
		Alignment:    c.Query("alignment"),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	}
	monsters, total, err := h.query.SearchMonsters(f)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"monsters": monsters, "total": total}))
}

func (h *CatalogHandler) Resolve(c *gin.Context) {
	resolved, err := h.reference.Resolve(c.Query("kind"), c.Query("name"), c.Query("source"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(resolved))
}

func (h *CatalogHandler) ListSources(c *gin.Context) {
	list, err := h.sources.ListSources()
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(list))
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}
