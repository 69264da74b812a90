// Package config assembles the running configuration of the mimir-dm
// process: a writable data directory, a templates directory, the local API
// bind address, and LLM provider configuration (spec.md §6 "Environment").
// The shape follows the teacher's internal/hivemind/options package: one
// struct per concern, each with AddFlags/Validate, aggregated into a single
// Options the CLI binds through viper.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// StorageOptions controls the on-disk layout root (spec.md §6).
type StorageOptions struct {
	DataDir       string `json:"data-dir" mapstructure:"data-dir"`
	TemplatesDir  string `json:"templates-dir" mapstructure:"templates-dir"`
	DatabasePath  string `json:"database-path" mapstructure:"database-path"`
	SeedOnFirstRun bool  `json:"seed-on-first-run" mapstructure:"seed-on-first-run"`
}

func NewStorageOptions() *StorageOptions {
	return &StorageOptions{
		DataDir:      DefaultDataDir(),
		TemplatesDir: "templates",
	}
}

func (o *StorageOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.DataDir, "storage.data-dir", o.DataDir, "Writable application data directory root.")
	fs.StringVar(&o.TemplatesDir, "storage.templates-dir", o.TemplatesDir, "Templates directory adjacent to the executable.")
	fs.StringVar(&o.DatabasePath, "storage.database-path", o.DatabasePath, "Override for the database file path (defaults under data-dir).")
	fs.BoolVar(&o.SeedOnFirstRun, "storage.seed-on-first-run", o.SeedOnFirstRun, "Accepted and stored; nothing reads it and no seed data is generated.")
}

func (o *StorageOptions) Validate() []error {
	var errs []error
	if o.DataDir == "" {
		errs = append(errs, fmt.Errorf("storage.data-dir is required"))
	}
	return errs
}

// ServerOptions controls the local process-boundary HTTP API.
type ServerOptions struct {
	BindAddress string `json:"bind-address" mapstructure:"bind-address"`
	Debug       bool   `json:"debug" mapstructure:"debug"`
}

func NewServerOptions() *ServerOptions {
	return &ServerOptions{BindAddress: "127.0.0.1:4317"}
}

func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BindAddress, "server.bind-address", o.BindAddress, "Local API bind address.")
	fs.BoolVar(&o.Debug, "server.debug", o.Debug, "Enable debug routes (pprof).")
}

func (o *ServerOptions) Validate() []error { return nil }

// LLMOptions controls which provider backs the assistant, if any (spec.md
// §6: "(optionally) an LLM provider configuration").
type LLMOptions struct {
	Provider string `json:"provider" mapstructure:"provider"`
	APIKey   string `json:"api-key" mapstructure:"api-key"`
	Model    string `json:"model" mapstructure:"model"`
}

func NewLLMOptions() *LLMOptions {
	return &LLMOptions{}
}

func (o *LLMOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Provider, "llm.provider", o.Provider, "LLM provider id: anthropic|openai|gemini|deepseek|qwen|ollama.")
	fs.StringVar(&o.APIKey, "llm.api-key", o.APIKey, "API key for the selected provider (or read from its standard env var).")
	fs.StringVar(&o.Model, "llm.model", o.Model, "Default model id for the selected provider.")
}

func (o *LLMOptions) Validate() []error { return nil }

// Options aggregates every configuration concern, mirroring the teacher's
// internal/hivemind/options.Options.
type Options struct {
	Storage *StorageOptions `json:"storage" mapstructure:"storage"`
	Server  *ServerOptions  `json:"server"  mapstructure:"server"`
	LLM     *LLMOptions     `json:"llm"     mapstructure:"llm"`
}

func NewOptions() *Options {
	return &Options{
		Storage: NewStorageOptions(),
		Server:  NewServerOptions(),
		LLM:     NewLLMOptions(),
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Storage.AddFlags(fs)
	o.Server.AddFlags(fs)
	o.LLM.AddFlags(fs)
}

// Validate runs every sub-option's Validate and flattens the result.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.Storage.Validate()...)
	errs = append(errs, o.Server.Validate()...)
	errs = append(errs, o.LLM.Validate()...)
	return errs
}

// Complete fills in defaults that depend on other fields having already
// been set (e.g. a database path derived from the data directory).
func (o *Options) Complete() error {
	if o.Storage.DatabasePath == "" {
		o.Storage.DatabasePath = o.Storage.DataDir + "/mimir.db"
	}
	return nil
}
