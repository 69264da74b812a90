// Package anthropic is a provider.Plugin wrapping eino-ext's Claude
// chat-model component for config validation and anthropic-sdk-go's
// client for a lightweight reachability probe, not full chat
// completion (grounded on the teacher's provider/anthropic/anthropic.go,
// which builds the same eino-ext config shape from connection info).
package anthropic

import (
	"context"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

const Name = "anthropic"

type Plugin struct{}

func New() provider.Plugin { return Plugin{} }

func (Plugin) Name() string { return Name }

func (Plugin) DefaultConfig() provider.Config {
	return provider.Config{
		BaseURL: "https://api.anthropic.com",
		APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		Model:   "claude-sonnet-4-5",
	}
}

// Probe validates the config by building an eino Claude chat model
// (the same construction this spec's tool runtime would reuse if it
// ever drove full chat completion), then pings the Anthropic API's
// model listing endpoint as a reachability check. Neither step sends
// a message.
func (Plugin) Probe(ctx context.Context, cfg provider.Config) (provider.Capability, error) {
	if cfg.APIKey == "" {
		return provider.Capability{}, provider.ErrNoCredentials(Name)
	}

	modelCfg := &einoClaude.Config{APIKey: cfg.APIKey, Model: cfg.Model, MaxTokens: 4096}
	if cfg.BaseURL != "" {
		modelCfg.BaseURL = &cfg.BaseURL
	}
	if _, err := einoClaude.NewChatModel(ctx, modelCfg); err != nil {
		return provider.Capability{}, err
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropicsdk.NewClient(opts...)
	if _, err := client.Models.List(ctx, anthropicsdk.ModelListParams{}); err != nil {
		return provider.Capability{}, err
	}

	return provider.Capability{
		Name:          Name,
		Model:         cfg.Model,
		SupportsTools: true,
		Streaming:     true,
	}, nil
}
