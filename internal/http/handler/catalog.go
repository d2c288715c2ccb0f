package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/model"
	"vaultcast/internal/service"
)

// ListVideos returns a page of videos of one kind.
//
// @Summary List videos
// @Tags catalog
// @Produce json
// @Param kind path string true "movies or tv"
// @Param limit query int false "page size, 0 for all" default(10)
// @Param offset query int false "offset" default(0)
// @Param search query string false "filename or title substring"
// @Success 200 {object} service.ListResult[model.Video]
// @Failure 400 {object} errorPayload
// @Router /api/{kind} [get]
func ListVideos(svc service.CatalogService, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), kind, q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetVideo returns one video by ID.
//
// @Summary Get video
// @Tags catalog
// @Produce json
// @Param kind path string true "movies or tv"
// @Param id path string true "video id"
// @Success 200 {object} model.Video
// @Failure 404 {object} errorPayload
// @Router /api/{kind}/{id} [get]
func GetVideo(svc service.CatalogService, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		v, err := svc.Get(c.UserContext(), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(v)
	}
}

// CreateVideo stores a new video.
//
// @Summary Create video
// @Tags catalog
// @Accept json
// @Produce json
// @Param kind path string true "movies or tv"
// @Param video body model.VideoFormData true "video"
// @Success 201 {object} model.Video
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/{kind} [post]
func CreateVideo(svc service.CatalogService, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.VideoFormData
		if err := c.BodyParser(&in); err != nil {
			return respondError(c, errInvalidBody)
		}
		v, err := svc.Create(c.UserContext(), kind, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

// UpdateVideo replaces a video.
//
// @Summary Update video
// @Tags catalog
// @Accept json
// @Produce json
// @Param kind path string true "movies or tv"
// @Param id path string true "video id"
// @Param video body model.VideoFormData true "video"
// @Success 200 {object} model.Video
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/{kind}/{id} [put]
func UpdateVideo(svc service.CatalogService, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		var in model.VideoFormData
		if err := c.BodyParser(&in); err != nil {
			return respondError(c, errInvalidBody)
		}
		v, err := svc.Update(c.UserContext(), kind, id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(v)
	}
}

// DeleteVideo removes a video.
//
// @Summary Delete video
// @Tags catalog
// @Param kind path string true "movies or tv"
// @Param id path string true "video id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/{kind}/{id} [delete]
func DeleteVideo(svc service.CatalogService, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), kind, id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// bulkUpdateRequest is the optional JSON body of a bulk update.
type bulkUpdateRequest struct {
	Dir           string `json:"dir"`
	BatchSize     int    `json:"batch_size"`
	Pause         string `json:"pause"`
	OnlyMissing   *bool  `json:"only_missing"`
	CreateMissing bool   `json:"create_missing"`
}

func (r bulkUpdateRequest) options(kind string) (service.BulkOptions, error) {
	opts := service.BulkOptions{
		Kind:          kind,
		Dir:           r.Dir,
		BatchSize:     r.BatchSize,
		OnlyMissing:   true,
		CreateMissing: r.CreateMissing,
	}
	if r.OnlyMissing != nil {
		opts.OnlyMissing = *r.OnlyMissing
	}
	if r.Pause != "" {
		d, err := time.ParseDuration(r.Pause)
		if err != nil || d < 0 {
			return opts, &paramError{code: "INVALID_PAUSE", message: "pause must be a duration such as 2s"}
		}
		opts.Pause = d
	}
	return opts, nil
}

// BulkUpdate re-fetches TMDb metadata for a content directory and streams
// progress as NDJSON.
//
// @Summary Bulk update metadata
// @Tags catalog
// @Accept json
// @Produce application/x-ndjson
// @Param kind path string true "movies or tv"
// @Param options body bulkUpdateRequest false "run options"
// @Success 200 {object} service.Progress
// @Failure 404 {object} errorPayload
// @Router /api/{kind}/bulk-update [post]
func BulkUpdate(b service.BulkUpdater, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bulkUpdateRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return respondError(c, errInvalidBody)
			}
		}
		opts, err := req.options(kind)
		if err != nil {
			return respondError(c, err)
		}
		return stream(c, contentTypeNDJSON, writeNDJSON[service.Progress], func(ctx context.Context, send func(service.Progress) error) error {
			return b.Run(ctx, opts, func(p service.Progress) { _ = send(p) })
		})
	}
}

// Reconcile compares the content directory with the catalog.
//
// @Summary Reconcile catalog with content
// @Tags catalog
// @Produce json
// @Param kind path string true "movies or tv"
// @Param dir query string false "content directory"
// @Success 200 {object} service.ReconcileResult
// @Failure 404 {object} errorPayload
// @Router /api/{kind}/reconcile [get]
func Reconcile(r service.Reconciler, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := r.Reconcile(c.UserContext(), kind, c.Query("dir"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
