package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/service"
)

// AnalyzeImage describes an uploaded image (multipart/form-data, field name: image).
//
// @Summary Analyze image
// @Tags image-analysis
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "image, at most 10 MiB"
// @Param prompt formData string false "instruction for the model"
// @Param provider formData string false "openai or mock"
// @Success 200 {object} model.ImageAnalysis
// @Failure 413 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Router /api/image-analysis [post]
func AnalyzeImage(svc service.VisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("image")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "IMAGE_REQUIRED", "image is required")
		}
		if fh.Size > service.MaxImageBytes {
			return respondError(c, service.ErrImageTooLarge)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		res, err := svc.Analyze(c.UserContext(), service.AnalyzeRequest{
			Image:       data,
			ContentType: fh.Header.Get("Content-Type"),
			Prompt:      c.FormValue("prompt"),
			Provider:    c.FormValue("provider"),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
