package handler

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/config"
	"vaultcast/internal/integrate"
)

// FeatureInstaller installs a feature directory into a project.
type FeatureInstaller interface {
	Run(ctx context.Context, featureDir, projectDir string, emit func(integrate.Progress)) error
}

type integrateRequest struct {
	Feature string `json:"feature"`
}

// Integrate installs a feature package and streams progress as server-sent events.
//
// @Summary Integrate feature
// @Tags integrator
// @Accept json
// @Produce text/event-stream
// @Param request body integrateRequest true "feature directory name"
// @Success 200 {object} integrate.Progress
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/integrate [post]
func Integrate(in FeatureInstaller, cfg config.IntegrateConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req integrateRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errInvalidBody)
		}
		if req.Feature == "" || !filepath.IsLocal(req.Feature) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FEATURE", "feature must be a directory name under the features root")
		}
		featureDir := filepath.Join(cfg.FeaturesDir, req.Feature)
		if st, err := os.Stat(featureDir); err != nil || !st.IsDir() {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "feature not found")
		}

		return stream(c, contentTypeSSE, writeSSE[integrate.Progress], func(ctx context.Context, send func(integrate.Progress) error) error {
			// Failures are reported in the final event.
			_ = in.Run(ctx, featureDir, cfg.ProjectDir, func(p integrate.Progress) { _ = send(p) })
			return nil
		})
	}
}
