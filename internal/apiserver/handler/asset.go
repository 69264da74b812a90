package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/asset"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/response"
)

type AssetHandler struct {
	svc *asset.Service
}

func (h *AssetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(400, response.Err[any](err))
		return
	}

	created, err := h.svc.Upload(
		c.PostForm("campaign_id"),
		c.PostForm("module_id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(created))
}

func (h *AssetHandler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(got))
}

func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		c.JSON(200, response.Err[any](err))
		return
	}
	c.JSON(200, response.OK(gin.H{"id": c.Param("id"), "deleted": true}))
}
