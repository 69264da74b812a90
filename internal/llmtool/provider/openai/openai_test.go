package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := Plugin{}.DefaultConfig()
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestProbe_NoCredentials(t *testing.T) {
	_, err := Plugin{}.Probe(context.Background(), provider.Config{Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, provider.ErrNoCredentials(Name))
}
