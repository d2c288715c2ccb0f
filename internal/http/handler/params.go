package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vaultcast/internal/service"
)

// paramError is a malformed query or route parameter.
type paramError struct {
	code    string
	message string
}

func (e *paramError) Error() string { return e.message }

var (
	errInvalidLimit  = &paramError{code: "INVALID_LIMIT", message: "invalid limit"}
	errInvalidOffset = &paramError{code: "INVALID_OFFSET", message: "invalid offset"}
	errInvalidBody   = &paramError{code: "INVALID_BODY", message: "request body must be valid JSON"}
)

// listQuery parses limit, offset and search. Limit defaults to 10; limit=0
// returns every record.
func listQuery(c *fiber.Ctx) (service.ListQuery, error) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 0 {
		return service.ListQuery{}, errInvalidLimit
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return service.ListQuery{}, errInvalidOffset
	}
	return service.ListQuery{Limit: limit, Offset: offset, Search: c.Query("search")}, nil
}

// idParam returns the :id route parameter when it is a UUID.
func idParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

// intParam parses a positive integer route parameter.
func intParam(c *fiber.Ctx, name string) (int, bool) {
	n, err := strconv.Atoi(c.Params(name))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
