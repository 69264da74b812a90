// Package ollama is a provider.Plugin wrapping eino-ext's Ollama
// chat-model component, grounded on the teacher's provider/ollama/ollama.go
// config shape.
package ollama

import (
	"context"
	"os"

	einoOllama "github.com/cloudwego/eino-ext/components/model/ollama"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

const Name = "ollama"

type Plugin struct{}

func New() provider.Plugin { return Plugin{} }

func (Plugin) Name() string { return Name }

func (Plugin) DefaultConfig() provider.Config {
	return provider.Config{
		BaseURL: "http://127.0.0.1:11434/v1",
		APIKey:  os.Getenv("OLLAMA_API_KEY"),
		Model:   "llama3.2",
	}
}

// Probe builds an eino Ollama chat model from cfg, validating the
// config shape without sending a message. Ollama has no remote
// credential to check, so an empty APIKey is valid.
func (Plugin) Probe(ctx context.Context, cfg provider.Config) (provider.Capability, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://127.0.0.1:11434/v1"
	}
	conf := &einoOllama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   cfg.Model,
		Options: &einoOllama.Options{},
	}
	if _, err := einoOllama.NewChatModel(ctx, conf); err != nil {
		return provider.Capability{}, err
	}
	return provider.Capability{Name: Name, Model: cfg.Model, SupportsTools: true, Streaming: true}, nil
}
