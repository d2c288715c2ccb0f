package handler

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/model"
	"vaultcast/internal/service"
)

// UploadProfileFile attaches a file to a message profile (multipart/form-data, field name: file).
func UploadProfileFile(m *service.Messenger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		p, err := m.UploadFile(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// DeleteProfileFile removes an attachment from a message profile.
func DeleteProfileFile(m *service.Messenger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || name == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid file name")
		}
		p, err := m.DeleteFile(c.UserContext(), id, name)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// Chat streams the assistant's reply for a profile as plain text.
//
// @Summary Chat with a message profile
// @Tags messenger
// @Accept json
// @Produce plain
// @Param request body service.ChatRequest true "profile, messages and files"
// @Success 200 {string} string
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/messenger/chat [post]
func Chat(m *service.Messenger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ChatRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errInvalidBody)
		}
		return stream(c, contentTypeText, writeText, func(ctx context.Context, send func(string) error) error {
			return m.Chat(ctx, req, send)
		})
	}
}

func registerMessenger(r fiber.Router, m *service.Messenger) {
	profiles := r.Group("/profiles")
	profiles.Post("/:id/files", UploadProfileFile(m))
	profiles.Delete("/:id/files/:name", DeleteProfileFile(m))
	recordRoutes[model.MessageProfile](profiles, m.Profiles, nil)
	r.Post("/chat", Chat(m))
}
