// Package openai is a provider.Plugin wrapping eino-ext's OpenAI
// chat-model component, grounded on the teacher's provider/openai/openai.go
// (which delegates to a shared OpenAI-compatible helper no longer present
// in this tree; here the eino-ext config is built directly).
package openai

import (
	"context"
	"os"

	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

const Name = "openai"

type Plugin struct{}

func New() provider.Plugin { return Plugin{} }

func (Plugin) Name() string { return Name }

func (Plugin) DefaultConfig() provider.Config {
	return provider.Config{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   "gpt-4o-mini",
	}
}

// Probe builds an eino OpenAI chat model from cfg, validating the
// config shape without sending a message.
func (Plugin) Probe(ctx context.Context, cfg provider.Config) (provider.Capability, error) {
	if cfg.APIKey == "" {
		return provider.Capability{}, provider.ErrNoCredentials(Name)
	}
	conf := &einoOpenAI.ChatModelConfig{APIKey: cfg.APIKey, Model: cfg.Model}
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	if _, err := einoOpenAI.NewChatModel(ctx, conf); err != nil {
		return provider.Capability{}, err
	}
	return provider.Capability{Name: Name, Model: cfg.Model, SupportsTools: true, Streaming: true}, nil
}
