package qwen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("QWEN_API_KEY", "")
	cfg := Plugin{}.DefaultConfig()
	assert.Equal(t, "https://dashscope.aliyuncs.com/compatible-mode/v1", cfg.BaseURL)
	assert.Equal(t, "qwen-plus", cfg.Model)
}

func TestProbe_NoCredentials(t *testing.T) {
	_, err := Plugin{}.Probe(context.Background(), provider.Config{Model: "qwen-plus"})
	assert.ErrorIs(t, err, provider.ErrNoCredentials(Name))
}

func TestPtrHelper(t *testing.T) {
	v := ptr(float32(0.7))
	assert.Equal(t, float32(0.7), *v)
}
