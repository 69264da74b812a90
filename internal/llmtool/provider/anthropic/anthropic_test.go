package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg := Plugin{}.DefaultConfig()
	assert.Equal(t, "https://api.anthropic.com", cfg.BaseURL)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
}

func TestProbe_NoCredentials(t *testing.T) {
	_, err := Plugin{}.Probe(context.Background(), provider.Config{Model: "claude-sonnet-4-5"})
	assert.ErrorIs(t, err, provider.ErrNoCredentials(Name))
}
