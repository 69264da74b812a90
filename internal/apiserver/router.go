package apiserver

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/mimir-dm/mimir-dm-go/internal/apiserver/handler"
)

// NewRouter builds the gin engine and registers every route group,
// mirroring the teacher's initRouter/installMiddleware/installController
// split (router.go).
func NewRouter(d *Deps) *gin.Engine {
	g := gin.New()
	installMiddleware(g)
	installRoutes(g, d)
	return g
}

func installMiddleware(g *gin.Engine) {
	g.Use(gin.Recovery())
	g.Use(cors())
}

// cors allows any local origin to call the API — this is a
// single-user desktop backend, not a multi-tenant service, so the
// teacher's bearer-auth middleware has no home here (see DESIGN.md).
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func installRoutes(g *gin.Engine, d *Deps) {
	g.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	h := handler.New(
		d.Campaigns, d.Modules, d.Documents, d.Templates, d.Characters,
		d.Assets, d.Players, d.Catalog, d.Reference, d.Sources,
		d.Maps, d.Tokens, d.Fog, d.Lights, d.Display,
		d.Tools, d.Dispatcher, d.Requests, d.Active, d.Providers, d.FS,
	)

	v1 := g.Group("/v1")
	{
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", h.Campaigns.Create)
			campaigns.GET("", h.Campaigns.List)
			campaigns.GET("/:id", h.Campaigns.Get)
			campaigns.POST("/:id/transition", h.Campaigns.Transition)
			campaigns.POST("/:id/archive", h.Campaigns.Archive)
			campaigns.POST("/:id/unarchive", h.Campaigns.Unarchive)
			campaigns.DELETE("/:id", h.Campaigns.Delete)
			campaigns.POST("/:id/activate", h.Tools.SetActiveCampaign)

			campaigns.POST("/:id/modules", h.Modules.Create)
			campaigns.GET("/:id/modules", h.Modules.List)
			campaigns.POST("/:id/players", h.Players.Join)
			campaigns.GET("/:id/players", h.Players.ListByCampaign)

			campaigns.GET("/:id/documents", h.Documents.List)
			campaigns.POST("/:id/documents", h.Documents.Create)
			campaigns.GET("/:id/documents/search", h.Documents.Search)

			campaigns.GET("/:id/maps", h.Maps.ListByCampaign)
			campaigns.POST("/:id/maps", h.Maps.Create)
		}

		modules := v1.Group("/modules")
		{
			modules.GET("/:id", h.Modules.Get)
			modules.POST("/:id/reorder", h.Modules.Reorder)
			modules.GET("/:id/documents", h.Documents.ListByModule)
		}

		documents := v1.Group("/documents")
		{
			documents.GET("/:id", h.Documents.Get)
			documents.GET("/:id/content", h.Documents.ReadContent)
			documents.PUT("/:id/content", h.Documents.UpdateContent)
			documents.POST("/:id/complete", h.Documents.Complete)
		}

		templates := v1.Group("/templates")
		{
			templates.GET("", h.Templates.ListActive)
			templates.GET("/:id", h.Templates.ActiveVersion)
			templates.POST("/:id/versions", h.Templates.CreateVersion)
			templates.POST("/:id/render", h.Templates.Render)
		}

		characters := v1.Group("/characters")
		{
			characters.POST("", h.Characters.Create)
			characters.GET("/:id", h.Characters.Get)
			characters.POST("/:id/level-up", h.Characters.LevelUp)
			characters.POST("/:id/inventory", h.Characters.AddInventoryItem)
			characters.DELETE("/:id/inventory/:name", h.Characters.RemoveInventoryItem)
			characters.PUT("/:id/inventory/:name/equipped", h.Characters.SetEquipped)
			characters.PUT("/:id/currency", h.Characters.SetCurrency)
		}

		assets := v1.Group("/assets")
		{
			assets.POST("", h.Assets.Upload)
			assets.GET("/:id", h.Assets.Get)
			assets.DELETE("/:id", h.Assets.Delete)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/spells", h.Catalog.SearchSpells)
			catalog.GET("/monsters", h.Catalog.SearchMonsters)
			catalog.GET("/resolve", h.Catalog.Resolve)
			catalog.GET("/sources", h.Catalog.ListSources)
		}

		mapsGroup := v1.Group("/maps")
		{
			mapsGroup.GET("/:id", h.Maps.Get)
			mapsGroup.PUT("/:id/grid", h.Maps.UpdateGrid)
			mapsGroup.GET("/:id/tokens", h.Tokens.ListByMap)
			mapsGroup.GET("/:id/tokens/:tokenId", h.Tokens.Get)
			mapsGroup.POST("/:id/tokens", h.Tokens.Create)
			mapsGroup.POST("/:id/tokens/move", h.Tokens.BulkMove)
			mapsGroup.PUT("/:id/tokens/:tokenId/visible", h.Tokens.SetVisible)
			mapsGroup.GET("/:id/fog", h.Fog.ListRevealed)
			mapsGroup.POST("/:id/fog/reveal-rect", h.Fog.RevealRect)
			mapsGroup.POST("/:id/fog/reveal-circle", h.Fog.RevealCircle)
			mapsGroup.POST("/:id/fog/reset", h.Fog.ResetAll)
			mapsGroup.GET("/:id/lights", h.Lights.ListByMap)
			mapsGroup.POST("/:id/lights", h.Lights.Create)
			mapsGroup.GET("/:id/display-events", h.Display.Stream)
			mapsGroup.POST("/:id/display-events", h.Display.Publish)
		}

		tools := v1.Group("/tools")
		{
			tools.GET("", h.Tools.List)
			tools.POST("/:name/invoke", h.Tools.Invoke)
			tools.POST("/confirmations/:requestId", h.Tools.Confirm)
			tools.POST("/cancel/:requestId", h.Tools.Cancel)
		}

		llm := v1.Group("/llm")
		{
			llm.GET("/providers", h.Providers.List)
		}
	}

	if d.Options != nil && d.Options.Debug {
		pprof.Register(g)
	}
}
