package deepseek

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	cfg := Plugin{}.DefaultConfig()
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.BaseURL)
	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.Empty(t, cfg.APIKey)
}

func TestProbe_NoCredentials(t *testing.T) {
	_, err := Plugin{}.Probe(context.Background(), provider.Config{Model: "deepseek-chat"})
	assert.ErrorIs(t, err, provider.ErrNoCredentials(Name))
}

func TestName(t *testing.T) {
	assert.Equal(t, "deepseek", Plugin{}.Name())
	assert.Equal(t, os.Getenv("DEEPSEEK_API_KEY"), Plugin{}.DefaultConfig().APIKey)
}
