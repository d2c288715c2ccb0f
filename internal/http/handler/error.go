package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"vaultcast/internal/content"
	"vaultcast/internal/http/middleware"
	"vaultcast/internal/service"
	"vaultcast/internal/storage"
	"vaultcast/internal/tmdb"
	"vaultcast/internal/validation"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// respondError translates a service-layer error into the error envelope.
// Validation messages are safe to return; anything unrecognised becomes a 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	var apiErr *tmdb.APIError
	var perr *paramError
	switch {
	case errors.As(err, &perr):
		return writeError(c, fiber.StatusBadRequest, perr.code, perr.message)
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, storage.ErrInvalidKey):
		return writeError(c, fiber.StatusBadRequest, "INVALID_PATH", "invalid path")
	case errors.Is(err, service.ErrInvalidKind):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "unknown video kind")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "record not found")
	case errors.Is(err, content.ErrDirectoryNotFound), errors.Is(err, storage.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file or directory not found")
	case errors.Is(err, tmdb.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "tmdb resource not found")
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "record already exists")
	case errors.Is(err, service.ErrProjectHasOpenTasks):
		return writeError(c, fiber.StatusConflict, "PROJECT_HAS_OPEN_TASKS", "project still has open tasks")
	case errors.Is(err, service.ErrFileNotAllowed):
		return writeError(c, fiber.StatusForbidden, "FILE_NOT_ALLOWED", "file is not allowed for this profile")
	case errors.Is(err, service.ErrImageTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds 10 MiB")
	case errors.Is(err, service.ErrUnsupportedImage):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "file is not an image")
	case errors.Is(err, tmdb.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "TMDB_UNAUTHORIZED", "tmdb rejected the api token")
	case errors.Is(err, tmdb.ErrNotConfigured), errors.Is(err, tmdb.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "TMDB_UNAVAILABLE", "tmdb is unavailable")
	case errors.Is(err, service.ErrAIUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE", "ai provider is not configured")
	case errors.Is(err, service.ErrMailUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "MAIL_UNAVAILABLE", "mail sending is not configured")
	case errors.As(err, &apiErr):
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "tmdb request failed")
	default:
		log.Error().Err(err).Str("request_id", requestIDFromCtx(c)).Str("path", c.Path()).Msg("request failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "BODY_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
