// Package deepseek is a provider.Plugin wrapping eino-ext's Deepseek
// chat-model component, grounded on the teacher's
// provider/deepseek/deepseek.go config shape.
package deepseek

import (
	"context"
	"os"

	einoDeepseek "github.com/cloudwego/eino-ext/components/model/deepseek"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

const Name = "deepseek"

type Plugin struct{}

func New() provider.Plugin { return Plugin{} }

func (Plugin) Name() string { return Name }

func (Plugin) DefaultConfig() provider.Config {
	return provider.Config{
		BaseURL: "https://api.deepseek.com/v1",
		APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		Model:   "deepseek-chat",
	}
}

// Probe builds an eino Deepseek chat model from cfg, validating the
// config shape without sending a message.
func (Plugin) Probe(_ context.Context, cfg provider.Config) (provider.Capability, error) {
	if cfg.APIKey == "" {
		return provider.Capability{}, provider.ErrNoCredentials(Name)
	}
	conf := &einoDeepseek.ChatModelConfig{APIKey: cfg.APIKey, Model: cfg.Model, Temperature: 0.7}
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	if _, err := einoDeepseek.NewChatModel(context.Background(), conf); err != nil {
		return provider.Capability{}, err
	}
	return provider.Capability{Name: Name, Model: cfg.Model, SupportsTools: true, Streaming: true}, nil
}
