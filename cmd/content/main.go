package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"

	"vaultcast/internal/config"
	"vaultcast/internal/content"
	handlers "vaultcast/internal/http/handler"
	"vaultcast/internal/http/middleware"
	"vaultcast/internal/logging"
	"vaultcast/internal/otel"
	"vaultcast/internal/storage"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "vaultcast-content")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer shutdownTracing(context.Background())

	// Video files live either on local disk or in an S3-compatible bucket
	store, err := storage.Open(ctx, cfg.Content.Storage, cfg.Content.Root, cfg.Content.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize content storage")
	}

	server := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	server.Use(middleware.RequestID())
	server.Use(middleware.Logger())
	server.Use(otelfiber.Middleware())

	server.Get("/healthz", handlers.LivenessProbe())
	handlers.RegisterContentRoutes(server, content.NewLibrary(store))

	go func() {
		<-ctx.Done()
		if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	addr := ":" + cfg.Content.Port
	log.Info().Str("addr", addr).Str("storage", cfg.Content.Storage).Str("root", cfg.Content.Root).Msg("content server listening")
	if err := server.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
