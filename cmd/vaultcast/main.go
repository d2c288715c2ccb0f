package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"vaultcast/internal/config"
	"vaultcast/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Config: cfg})

	cmd := &cli.Command{
		Name:     "vaultcast",
		Usage:    "Maintain the VaultCast catalog from the command line",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
