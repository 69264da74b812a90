// Package apiserver assembles the local-process HTTP API: a gin router
// wrapping every campaign/catalog/mapviz/pdf/llmtool service behind the
// ApiResponse envelope (spec.md §6), mirroring the teacher's
// internal/hivemind router/handler-group layout adapted to this
// spec's resource set.
package apiserver

import (
	"database/sql"

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
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider/anthropic"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider/deepseek"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider/gemini"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider/ollama"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider/openai"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider/qwen"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/registry"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/reqctx"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/display"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/fog"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/light"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/mapsvc"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/token"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/config"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

// Deps bundles every service the router's handlers dispatch into.
type Deps struct {
	Campaigns  *campaign.Service
	Modules    *module.Service
	Documents  *document.Service
	Templates  *template.Service
	Characters *character.Service
	Assets     *asset.Service
	Players    *player.Service

	Catalog   *query.Service
	Reference *reference.Service
	Sources   *sources.Service

	Maps    *mapsvc.Service
	Tokens  *token.Service
	Fog     *fog.Service
	Lights  *light.Service
	Display *display.Hub

	Tools      *registry.Registry
	Dispatcher *dispatch.Dispatcher
	Requests   *reqctx.Registry
	Active     *reqctx.ActiveCampaign
	Providers  *provider.Registry

	FS      *fsstore.Root
	Options *config.ServerOptions
}

// NewDeps wires every service off a shared database handle and
// filesystem root, in the order each constructor needs its
// dependencies (catalog query service before character, since
// character-sheet lookups reference the catalog).
func NewDeps(db *sql.DB, fs *fsstore.Root, opts *config.ServerOptions) *Deps {
	catalogSvc := query.New(db)
	tools := registry.New()
	requests := reqctx.New()
	active := reqctx.NewActiveCampaign()
	providers := newProviderRegistry()

	documentsSvc := document.New(db, fs)
	templatesSvc := template.New(db)
	mapsSvc := mapsvc.New(db)

	d := &Deps{
		Campaigns:  campaign.New(db, fs),
		Modules:    module.New(db, fs, templatesSvc, documentsSvc),
		Documents:  documentsSvc,
		Templates:  templatesSvc,
		Characters: character.New(db, fs, catalogSvc),
		Assets:     asset.New(db, fs),
		Players:    player.New(db),

		Catalog:   catalogSvc,
		Reference: reference.New(db),
		Sources:   sources.New(db),

		Maps:    mapsSvc,
		Tokens:  token.New(db, mapsSvc),
		Fog:     fog.New(db),
		Lights:  light.New(db),
		Display: display.NewHub(),

		Tools:     tools,
		Requests:  requests,
		Active:    active,
		Providers: providers,

		FS:      fs,
		Options: opts,
	}
	d.Dispatcher = dispatch.New(tools, requests)
	return d
}

// newProviderRegistry registers every LLM provider plugin this module
// ships. Capability probing (provider.ProbeAll) decides at request time
// which ones actually have usable credentials.
func newProviderRegistry() *provider.Registry {
	reg := provider.NewRegistry()
	reg.MustRegister(anthropic.Name, anthropic.New)
	reg.MustRegister(gemini.Name, gemini.New)
	reg.MustRegister(deepseek.Name, deepseek.New)
	reg.MustRegister(openai.Name, openai.New)
	reg.MustRegister(qwen.Name, qwen.New)
	reg.MustRegister(ollama.Name, ollama.New)
	return reg
}
