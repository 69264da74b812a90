// Package handler implements one gin handler group per resource,
// mirroring the teacher's internal/hivemind/handler/v1 layout: each
// file owns one resource's CRUD surface and replies through the
// ApiResponse envelope.
package handler

import (
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/asset"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/campaign"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/character"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/document"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/module"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/player"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/template"
	"github.com/mimir-dm/mimir-dm-go/internal/catalog/query"
	"github.com/mimir-dm/mimir-dm-go/internal/catalog/reference"
	"github.com/mimir-dm/mimir-dm-go/internal/catalog/sources"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/dispatch"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/registry"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/reqctx"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/display"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/fog"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/light"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/mapsvc"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/token"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

// Handlers bundles one handler per resource group.
type Handlers struct {
	Campaigns  *CampaignHandler
	Modules    *ModuleHandler
	Documents  *DocumentHandler
	Templates  *TemplateHandler
	Characters *CharacterHandler
	Assets     *AssetHandler
	Players    *PlayerHandler
	Catalog    *CatalogHandler
	Maps       *MapHandler
	Tokens     *TokenHandler
	Fog        *FogHandler
	Lights     *LightHandler
	Display    *DisplayHandler
	Tools      *ToolsHandler
	Providers  *ProvidersHandler
}

// New wires one handler per service.
func New(
	campaigns *campaign.Service,
	modules *module.Service,
	documents *document.Service,
	templates *template.Service,
	characters *character.Service,
	assets *asset.Service,
	players *player.Service,
	catalogSvc *query.Service,
	referenceSvc *reference.Service,
	sourcesSvc *sources.Service,
	mapsSvc *mapsvc.Service,
	tokensSvc *token.Service,
	fogSvc *fog.Service,
	lightsSvc *light.Service,
	displayHub *display.Hub,
	toolsReg *registry.Registry,
	dispatcher *dispatch.Dispatcher,
	requests *reqctx.Registry,
	active *reqctx.ActiveCampaign,
	providers *provider.Registry,
	fs *fsstore.Root,
) *Handlers {
	return &Handlers{
		Campaigns:  &CampaignHandler{svc: campaigns},
		Modules:    &ModuleHandler{svc: modules},
		Documents:  &DocumentHandler{svc: documents},
		Templates:  &TemplateHandler{svc: templates},
		Characters: &CharacterHandler{svc: characters},
		Assets:     &AssetHandler{svc: assets},
		Players:    &PlayerHandler{svc: players},
		Catalog:    &CatalogHandler{query: catalogSvc, reference: referenceSvc, sources: sourcesSvc},
		Maps:       &MapHandler{svc: mapsSvc},
		Tokens:     &TokenHandler{svc: tokensSvc},
		Fog:        &FogHandler{svc: fogSvc},
		Lights:     &LightHandler{svc: lightsSvc},
		Display:    &DisplayHandler{hub: displayHub},
		Tools:      &ToolsHandler{registry: toolsReg, dispatcher: dispatcher, requests: requests, active: active},
		Providers:  &ProvidersHandler{registry: providers},
	}
}
