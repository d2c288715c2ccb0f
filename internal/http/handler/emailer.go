package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/model"
	"vaultcast/internal/service"
)

// RenderEmail renders a design or saved template with the given values.
//
// @Summary Render email
// @Tags emailer
// @Accept json
// @Produce json
// @Param request body service.RenderRequest true "design or template and values"
// @Success 200 {object} service.Rendered
// @Failure 400 {object} errorPayload
// @Router /api/emailer/render [post]
func RenderEmail(e *service.Emailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.RenderRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errInvalidBody)
		}
		out, err := e.Render(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// ComposeEmail streams an AI drafted email body as plain text.
//
// @Summary Compose email copy
// @Tags emailer
// @Accept json
// @Produce plain
// @Param request body service.ComposeRequest true "prompt and tone"
// @Success 200 {string} string
// @Failure 503 {object} errorPayload
// @Router /api/emailer/compose [post]
func ComposeEmail(e *service.Emailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ComposeRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errInvalidBody)
		}
		return stream(c, contentTypeText, writeText, func(ctx context.Context, send func(string) error) error {
			return e.Compose(ctx, req, send)
		})
	}
}

// SendEmail renders and delivers an email through Gmail.
//
// @Summary Send email
// @Tags emailer
// @Accept json
// @Produce json
// @Param request body service.SendRequest true "recipients and content"
// @Success 200 {object} service.SendResult
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/emailer/send [post]
func SendEmail(e *service.Emailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.SendRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errInvalidBody)
		}
		res, err := e.Send(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

func registerEmailer(r fiber.Router, e *service.Emailer) {
	recordRoutes[model.EmailDesign](r.Group("/designs"), e.Designs, nil)
	recordRoutes[model.EmailTemplate](r.Group("/templates"), e.Templates, nil)
	r.Post("/render", RenderEmail(e))
	r.Post("/compose", ComposeEmail(e))
	r.Post("/send", SendEmail(e))
}
