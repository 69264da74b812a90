// Package cli assembles the mimirdm server command, mirroring the
// teacher's internal/echoctl/cmd.NewEchoCtlCommand shape (cobra command,
// viper-bound persistent flags) trimmed to this process's single
// responsibility: bring up storage, wire every service, and serve the
// local API plus the MCP tool surface.
package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mimir-dm/mimir-dm-go/internal/apiserver"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/mcpserver"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/provider"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/tools"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/config"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/logging"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/db"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

// NewServeCommand builds the `mimirdm serve` command (also the root
// command's default action), following the same
// flags-then-viper-then-run wiring the teacher uses across its CLI
// entrypoints.
func NewServeCommand() *cobra.Command {
	opts := config.NewOptions()

	cmd := &cobra.Command{
		Use:   "mimirdm",
		Short: "mimirdm runs the local tabletop campaign data service",
		Long: `mimirdm is the local-first data service behind a tabletop RPG
campaign manager: catalog ingestion and query, campaign/document storage,
map and token state, PDF assembly, and the LLM tool runtime that a
co-pilot assistant drives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := opts.Validate(); len(errs) > 0 {
				return fmt.Errorf("invalid configuration: %v", errs)
			}
			if err := opts.Complete(); err != nil {
				return err
			}
			return run(opts)
		},
	}

	flags := cmd.Flags()
	opts.AddFlags(flags)
	_ = viper.BindPFlags(flags)

	return cmd
}

func run(opts *config.Options) error {
	log := logging.New(opts.Server.Debug)
	log.WithField("data_dir", opts.Storage.DataDir).Info("starting mimirdm")

	fs, err := fsstore.New(opts.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("init data directory: %w", err)
	}

	conn, err := db.Open(opts.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	schema, err := db.Migrate(conn)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if !schema.FTSAvailable {
		log.WithField("reason", schema.FTSError).Warn("full-text search unavailable, falling back to LIKE search")
	}

	deps := apiserver.NewDeps(conn, fs, opts.Server)

	for _, capability := range provider.ProbeAll(context.Background(), deps.Providers) {
		log.WithFields(map[string]interface{}{
			"provider": capability.Name,
			"model":    capability.Model,
		}).Info("llm provider reachable")
	}

	tools.Register(deps.Tools, tools.Services{
		Documents:  deps.Documents,
		Templates:  deps.Templates,
		Catalog:    deps.Catalog,
		Characters: deps.Characters,
		Active:     deps.Active,
	})

	mcp := mcpserver.Build(deps.Tools, deps.Dispatcher)
	go func() {
		if err := server.ServeStdio(mcp); err != nil {
			log.WithError(err).Error("mcp stdio server exited")
		}
	}()

	router := apiserver.NewRouter(deps)

	listener, err := net.Listen("tcp", opts.Server.BindAddress)
	if err != nil {
		return fmt.Errorf("bind %s: %w", opts.Server.BindAddress, err)
	}
	log.WithField("address", opts.Server.BindAddress).Info("serving local api")

	return router.RunListener(listener)
}
