package handler

import (
	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/config"
	"vaultcast/internal/model"
	"vaultcast/internal/service"
	"vaultcast/internal/tmdb"
)

// Deps carries everything the API routes are built from.
type Deps struct {
	DB         Pinger
	Catalog    service.CatalogService
	Bulk       service.BulkUpdater
	Reconciler service.Reconciler
	TMDb       tmdb.API
	Decisions  *service.DecisionHelper
	Emailer    *service.Emailer
	Messenger  *service.Messenger
	Vision     service.VisionService
	Integrator FeatureInstaller
	Integrate  config.IntegrateConfig
}

// RegisterRoutes attaches the VaultCast API routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	tm := api.Group("/tmdb")
	tm.Get("/search", SearchTMDb(d.TMDb))
	tm.Get("/movie/:id", GetTMDbMovie(d.TMDb))
	tm.Get("/tv/:id", GetTMDbShow(d.TMDb))
	tm.Get("/tv/:id/season/:season/episode/:episode", GetTMDbEpisode(d.TMDb))

	registerDecisionHelper(api.Group("/decision-helper"), d.Decisions)
	registerEmailer(api.Group("/emailer"), d.Emailer)
	registerMessenger(api.Group("/messenger"), d.Messenger)
	api.Post("/image-analysis", AnalyzeImage(d.Vision))
	api.Post("/integrate", Integrate(d.Integrator, d.Integrate))

	for _, kind := range []string{model.KindMovies, model.KindTV} {
		g := api.Group("/" + kind)
		g.Post("/bulk-update", BulkUpdate(d.Bulk, kind))
		g.Get("/reconcile", Reconcile(d.Reconciler, kind))
		g.Get("/", ListVideos(d.Catalog, kind))
		g.Post("/", CreateVideo(d.Catalog, kind))
		g.Get("/:id", GetVideo(d.Catalog, kind))
		g.Put("/:id", UpdateVideo(d.Catalog, kind))
		g.Delete("/:id", DeleteVideo(d.Catalog, kind))
	}
}
