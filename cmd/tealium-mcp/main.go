// Package main provides the tealium-mcp binary, the MCP server for AI agents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/rechedev9/tealium-mcp-server/pkg/config"
	tmcp "github.com/rechedev9/tealium-mcp-server/pkg/ecosystem/mcp"
	"github.com/rechedev9/tealium-mcp-server/pkg/logging"
)

var version = "dev"

var (
	configPath  string
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:           "tealium-mcp",
	Short:         "Serve the Tealium data layer tools over MCP stdio",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// serve is replaced in tests.
var serve = func(s *server.MCPServer) error { return server.ServeStdio(s) }

func run(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), "tealium-mcp", version)
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	logging.SetDefault(logger)
	logger.Info("starting", "version", version, "schema", cfg.DefaultSchema, "strict", cfg.StrictMode)

	return serve(tmcp.NewServer(version, cfg, logger))
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tealium-mcp/config.yaml)")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Print version and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
