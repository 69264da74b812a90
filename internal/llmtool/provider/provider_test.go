package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	name string
	cap  Capability
	err  error
}

func (s stubPlugin) Name() string            { return s.name }
func (s stubPlugin) DefaultConfig() Config   { return Config{Model: s.cap.Model} }
func (s stubPlugin) Probe(context.Context, Config) (Capability, error) {
	return s.cap, s.err
}

func TestRegistry_RegisterGetList(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("anthropic", func() Plugin { return stubPlugin{name: "anthropic"} })

	factory, err := reg.Get("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", factory().Name())

	assert.Equal(t, []string{"anthropic"}, reg.List())

	_, err = reg.Get("missing")
	assert.Error(t, err)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("gemini", func() Plugin { return stubPlugin{name: "gemini"} }))
	assert.Error(t, reg.Register("gemini", func() Plugin { return stubPlugin{name: "gemini"} }))
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("openai", func() Plugin { return stubPlugin{name: "openai"} })
	assert.Panics(t, func() {
		reg.MustRegister("openai", func() Plugin { return stubPlugin{name: "openai"} })
	})
}

func TestProbeAll_SkipsFailuresAndCollectsSuccesses(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("anthropic", func() Plugin {
		return stubPlugin{name: "anthropic", cap: Capability{Name: "anthropic", Model: "claude-sonnet-4-5", SupportsTools: true}}
	})
	reg.MustRegister("ollama", func() Plugin {
		return stubPlugin{name: "ollama", err: ErrNoCredentials("ollama")}
	})

	caps := ProbeAll(context.Background(), reg)

	require.Len(t, caps, 1)
	assert.Equal(t, "anthropic", caps[0].Name)
	assert.Equal(t, "claude-sonnet-4-5", caps[0].Model)
}

func TestErrNoCredentials_Message(t *testing.T) {
	err := ErrNoCredentials("gemini")
	assert.Equal(t, "provider gemini: no credentials configured", err.Error())
}
