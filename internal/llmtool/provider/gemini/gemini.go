// Package gemini is a provider.Plugin wrapping eino-ext's Gemini
// chat-model component for config validation and google.golang.org/
// genai's client for a lightweight reachability probe, grounded on the
// teacher's provider/gemini/gemini.go (same genai.ClientConfig plus
// einoGemini.Config wiring, trimmed of the Vertex AI connection
// branch since this spec has no multi-backend concept).
package gemini

import (
	"context"
	"os"

	einoGemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

const Name = "gemini"

type Plugin struct{}

func New() provider.Plugin { return Plugin{} }

func (Plugin) Name() string { return Name }

func (Plugin) DefaultConfig() provider.Config {
	return provider.Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  "gemini-2.0-flash",
	}
}

// Probe constructs a genai client, fetches the configured model as a
// reachability check, then builds the eino chat model against the
// same client to validate the config shape this spec's tool runtime
// would reuse for full chat completion.
func (Plugin) Probe(ctx context.Context, cfg provider.Config) (provider.Capability, error) {
	if cfg.APIKey == "" {
		return provider.Capability{}, provider.ErrNoCredentials(Name)
	}

	clientCfg := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return provider.Capability{}, err
	}
	if _, err := client.Models.Get(ctx, cfg.Model, nil); err != nil {
		return provider.Capability{}, err
	}

	if _, err := einoGemini.NewChatModel(ctx, &einoGemini.Config{Client: client, Model: cfg.Model}); err != nil {
		return provider.Capability{}, err
	}

	return provider.Capability{
		Name:          Name,
		Model:         cfg.Model,
		SupportsTools: true,
		Streaming:     true,
	}, nil
}
