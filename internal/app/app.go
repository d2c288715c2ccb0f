// Package app builds the VaultCast service graph shared by the API server and
// the command-line tool.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"vaultcast/internal/ai"
	"vaultcast/internal/config"
	"vaultcast/internal/content"
	"vaultcast/internal/database"
	"vaultcast/internal/http/handler"
	"vaultcast/internal/integrate"
	"vaultcast/internal/logging"
	"vaultcast/internal/mailer"
	"vaultcast/internal/model"
	"vaultcast/internal/service"
	"vaultcast/internal/storage"
	"vaultcast/internal/tmdb"
)

// App holds the opened store and every service built on top of it.
type App struct {
	Store      *database.Store
	Catalog    service.CatalogService
	Bulk       service.BulkUpdater
	Reconciler service.Reconciler
	TMDb       tmdb.API
	Decisions  *service.DecisionHelper
	Emailer    *service.Emailer
	Messenger  *service.Messenger
	Vision     service.VisionService
	Integrator *integrate.Integrator
	cfg        *config.AppConfig
}

// ContentDirs maps each catalog kind to its directory on the content server.
func ContentDirs(cfg config.ContentConfig) map[string]string {
	return map[string]string{
		model.KindMovies: cfg.MoviesDir,
		model.KindTV:     cfg.TVDir,
	}
}

// New opens the record store and wires the services. Bulk update counters are
// registered on reg; pass nil to skip metrics.
func New(ctx context.Context, cfg *config.AppConfig, reg prometheus.Registerer) (*App, error) {
	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	files, err := storage.Open(ctx, cfg.Files.Storage, cfg.Files.Root, cfg.Content.MinIO)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("open attachment storage: %w", err)
	}

	var metrics *service.BulkMetrics
	if reg != nil {
		if metrics, err = service.NewBulkMetrics(reg); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("register bulk metrics: %w", err)
		}
	}

	var sender mailer.Sender
	if cfg.Gmail.Enabled() {
		gmail, err := mailer.NewGmail(ctx, cfg.Gmail)
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("gmail: %w", err)
		}
		sender = gmail
	} else {
		logging.Component("emailer").Warn().Msg("gmail credentials missing, sending disabled")
	}

	openai := ai.NewOpenAI(cfg.OpenAI, nil)
	if !openai.Configured() {
		logging.Component("ai").Warn().Msg("OPENAI_API_KEY not set, completions disabled and vision falls back to mock")
	}

	api := tmdb.New(cfg.TMDb)
	lister := content.NewClient(cfg.Content.ServerURL, nil)
	dirs := ContentDirs(cfg.Content)
	catalog := service.NewCatalogService(store.Repo)
	defaults := service.BulkOptions{BatchSize: cfg.Bulk.BatchSize, Pause: cfg.Bulk.Pause}

	return &App{
		Store:      store,
		Catalog:    catalog,
		Bulk:       service.NewBulkUpdater(catalog, lister, api, dirs, defaults, metrics, logging.Component("bulk-update")),
		Reconciler: service.NewReconciler(catalog, lister, dirs),
		TMDb:       api,
		Decisions:  service.NewDecisionHelper(store.Repo),
		Emailer:    service.NewEmailer(store.Repo, openai, sender),
		Messenger:  service.NewMessenger(store.Repo, files, openai),
		Vision:     service.NewVisionService(openai, openai.Configured()),
		Integrator: integrate.New(logging.Component("integrate")),
		cfg:        cfg,
	}, nil
}

// Deps returns the HTTP route dependencies.
func (a *App) Deps() handler.Deps {
	return handler.Deps{
		DB:         a.Store,
		Catalog:    a.Catalog,
		Bulk:       a.Bulk,
		Reconciler: a.Reconciler,
		TMDb:       a.TMDb,
		Decisions:  a.Decisions,
		Emailer:    a.Emailer,
		Messenger:  a.Messenger,
		Vision:     a.Vision,
		Integrator: a.Integrator,
		Integrate:  a.cfg.Integrate,
	}
}

// Close releases the store.
func (a *App) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}
