package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tb0hdan/masscan-mcp/pkg/masscan"
	"github.com/tb0hdan/masscan-mcp/pkg/server"
)

const scanUsage = "TARGET PORT [-- MASSCAN_ARGS...]"

func scanRequest(args []string) masscan.ScanRequest {
	return masscan.ScanRequest{
		Target:    args[0],
		Port:      args[1],
		ExtraArgs: append([]string(nil), args[2:]...),
	}
}

func newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate " + scanUsage,
		Short: "Print the masscan command and how to run it, without scanning",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(os.Stderr, cfg.Debug)

			executor, err := newExecutor(cfg.Scanner, logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), executor.Advise(scanRequest(args)))
			return err
		},
	}
}

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan " + scanUsage,
		Short: "Run masscan once and print the classified result",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(os.Stderr, cfg.Debug)

			executor, err := newExecutor(cfg.Scanner, logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), executor.Report(cmd.Context(), scanRequest(args)))
			return err
		},
	}
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s Version: %s\n", server.ServiceName, version)
			return err
		},
	}
}
