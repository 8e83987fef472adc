package main

import (
	"context"
	_ "embed"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
)

const ServerName = "masscan-mcp"

//go:embed VERSION
var Version string

func main() {
	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewCommand(strings.TrimSpace(Version))
	if err := cmd.ExecuteContext(signalCtx); err != nil {
		stop()
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Error().Msgf("%s: %v", ServerName, err)
		os.Exit(1)
	}
}
