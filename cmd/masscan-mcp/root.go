package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tb0hdan/masscan-mcp/pkg/config"
	"github.com/tb0hdan/masscan-mcp/pkg/masscan"
	"github.com/tb0hdan/masscan-mcp/pkg/metrics"
	"github.com/tb0hdan/masscan-mcp/pkg/server"
	"github.com/tb0hdan/masscan-mcp/pkg/storage"
	"github.com/tb0hdan/masscan-mcp/pkg/tools"
	"github.com/tb0hdan/masscan-mcp/pkg/tools/execute"
	"github.com/tb0hdan/masscan-mcp/pkg/tools/generate"
	"github.com/tb0hdan/masscan-mcp/pkg/tools/help"
	"github.com/tb0hdan/masscan-mcp/pkg/tools/history"
)

// NewCommand builds the CLI. Without a subcommand it serves MCP.
func NewCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     ServerName,
		Short:   server.ServiceName,
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, version)
		},
	}

	cmd.SilenceUsage = true
	cmd.SetVersionTemplate(fmt.Sprintf("%s Version: {{.Version}}\n", server.ServiceName))
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newVersionCommand(version))

	return cmd
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(cmd.Flags(), configFile)
}

// newLogger writes to stderr when stdout carries the stdio transport or
// command output.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger.Debug().Msg("debug mode enabled")
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return logger
}

func newExecutor(cfg config.ScannerConfig, logger zerolog.Logger) (*masscan.Executor, error) {
	var runner masscan.Runner
	switch cfg.Runner {
	case config.RunnerDocker:
		dockerRunner, err := masscan.NewDockerRunner(cfg.Image)
		if err != nil {
			return nil, err
		}
		runner = dockerRunner
	default:
		runner = masscan.NewProcessRunner(masscan.DefaultWaitDelay)
	}

	return masscan.NewExecutor(runner, masscan.Options{
		Binary:           cfg.Binary,
		Timeout:          cfg.Timeout,
		Sudo:             cfg.Sudo,
		DetectPermission: cfg.DetectPermission,
		Image:            cfg.Image,
	}, logger), nil
}

func serve(ctx context.Context, cfg config.Config, version string) error {
	var out io.Writer = os.Stdout
	if cfg.Server.Transport == config.TransportStdio {
		out = os.Stderr
	}
	logger := newLogger(out, cfg.Debug)

	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Storage.Path != "" {
		sqliteStore, err := storage.NewSQLiteStorage(storage.Config{
			DatabasePath: cfg.Storage.Path,
			Debug:        cfg.Debug,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = sqliteStore
		logger.Info().Msgf("Database initialized at %s", cfg.Storage.Path)
	} else {
		logger.Info().Msg("scan history disabled")
	}

	srv := server.NewServer(cfg.Server, impl, store, metrics.New(), logger)
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil { //nolint:contextcheck
			logger.Error().Msgf("%s shutdown error: %v", server.ServiceName, err)
		} else {
			logger.Info().Msgf("%s shutdown complete", server.ServiceName)
		}
	}()

	executor, err := newExecutor(cfg.Scanner, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize %s runner: %w", cfg.Scanner.Runner, err)
	}

	toolList := []tools.Tool{
		generate.New(logger, executor),
		execute.New(logger, executor),
		help.New(logger),
		history.New(logger),
	}

	// Register all tools
	for _, tool := range toolList {
		if err := tool.Register(srv); err != nil {
			logger.Error().Msgf("Failed to register tool: %v", err)
		}
	}

	return srv.Run(ctx)
}
