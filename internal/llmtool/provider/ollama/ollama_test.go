package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OLLAMA_API_KEY", "")
	cfg := Plugin{}.DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:11434/v1", cfg.BaseURL)
	assert.Equal(t, "llama3.2", cfg.Model)
}

func TestName(t *testing.T) {
	assert.Equal(t, "ollama", Plugin{}.Name())
}
