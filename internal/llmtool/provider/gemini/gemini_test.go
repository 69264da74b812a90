package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := Plugin{}.DefaultConfig()
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestProbe_NoCredentials(t *testing.T) {
	_, err := Plugin{}.Probe(context.Background(), provider.Config{Model: "gemini-2.0-flash"})
	assert.ErrorIs(t, err, provider.ErrNoCredentials(Name))
}
