package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/dice-mosaic-mcp/internal/server"
	"github.com/ironsheep/dice-mosaic-mcp/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Environment variables read at startup.
const (
	envLogLevel = "DICE_MCP_LOG_LEVEL"
	envStoreDir = "DICE_MCP_STORE_DIR"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dice-mosaic-mcp",
		Short: "MCP server that turns images into dice mosaics",
		Long: `dice-mosaic-mcp converts images into grids of dice faces (1 lightest,
6 darkest) and serves the conversion as MCP tools over stdin/stdout.

Run without a subcommand to serve MCP. Configure it in your MCP client
(e.g., Claude Desktop).

Environment variables:
  DICE_MCP_LOG_LEVEL=debug     Default for --log-level
  DICE_MCP_STORE_DIR=<dir>     Persist generated grids in <dir>`,
		Version:           Version,
		Args:              cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runServe,
	}

	root.SetVersionTemplate(versionString())
	root.PersistentFlags().String("log-level", defaultLogLevel(), "verbosity of logging output (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-as-json", false, "change logging format to JSON")

	root.AddCommand(newConvertCmd(), newSampleCmd(), newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Failed to execute command", slog.Any("error", err))
		os.Exit(1)
	}
}

func defaultLogLevel() string {
	if lvl := os.Getenv(envLogLevel); lvl != "" {
		return lvl
	}
	return "warn"
}

// setupLogging installs a stderr handler; stdout carries MCP traffic.
func setupLogging(cmd *cobra.Command, _ []string) error {
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("get log-level flag: %w", err)
	}
	logAsJSON, err := cmd.Flags().GetBool("log-as-json")
	if err != nil {
		return fmt.Errorf("get log-as-json flag: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if logAsJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	mosaic.SetLogger(logger)
	return nil
}

func runServe(_ *cobra.Command, _ []string) error {
	grids, err := openStore()
	if err != nil {
		return err
	}

	slog.Debug("starting server",
		"version", Version, "built", BuildTime, "commit", GitCommit,
		"store_dir", os.Getenv(envStoreDir))

	srv := server.New(
		server.WithStore(grids),
		server.WithLogger(slog.Default()),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// openStore returns a disk-backed store when DICE_MCP_STORE_DIR is set and an
// in-memory one otherwise.
func openStore() (*store.Store, error) {
	dir := os.Getenv(envStoreDir)
	if dir == "" {
		return store.New(), nil
	}
	grids, err := store.NewWithDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open grid store: %w", err)
	}
	return grids, nil
}

func versionString() string {
	return fmt.Sprintf("%s %s\n  Build time: %s\n  Git commit: %s\n", server.Name, Version, BuildTime, GitCommit)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionString())
		},
	}
}
