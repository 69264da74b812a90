// Package qwen is a provider.Plugin wrapping eino-ext's Qwen chat-model
// component, grounded on the teacher's provider/qwen/qwen.go config
// shape (the teacher's github.com/bytedance/gg/gptr.Of pointer helper
// is replaced here by a local ptr() since that dependency is otherwise
// unused in this module).
package qwen

import (
	"context"
	"os"

	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	einoQwen "github.com/cloudwego/eino-ext/components/model/qwen"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

const Name = "qwen"

type Plugin struct{}

func New() provider.Plugin { return Plugin{} }

func (Plugin) Name() string { return Name }

func (Plugin) DefaultConfig() provider.Config {
	return provider.Config{
		BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		APIKey:  os.Getenv("QWEN_API_KEY"),
		Model:   "qwen-plus",
	}
}

// Probe builds an eino Qwen chat model from cfg, validating the config
// shape without sending a message.
func (Plugin) Probe(ctx context.Context, cfg provider.Config) (provider.Capability, error) {
	if cfg.APIKey == "" {
		return provider.Capability{}, provider.ErrNoCredentials(Name)
	}
	conf := &einoQwen.ChatModelConfig{
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		Temperature:    ptr(float32(0.7)),
		ResponseFormat: &einoOpenAI.ChatCompletionResponseFormat{Type: "text"},
	}
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	if _, err := einoQwen.NewChatModel(ctx, conf); err != nil {
		return provider.Capability{}, err
	}
	return provider.Capability{Name: Name, Model: cfg.Model, SupportsTools: true, Streaming: true}, nil
}

func ptr[T any](v T) *T { return &v }
