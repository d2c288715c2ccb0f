package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/service"
)

// recordStore is the CRUD surface of service.Records for one record type.
type recordStore[T any] interface {
	List(ctx context.Context, q service.ListQuery) (*service.ListResult[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, rec T) (*T, error)
	Update(ctx context.Context, id string, rec T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ListRecords returns a page of records.
func ListRecords[T any](s recordStore[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := s.List(c.UserContext(), q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetRecord returns one record by ID.
func GetRecord[T any](s recordStore[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		rec, err := s.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rec)
	}
}

// CreateRecord validates and stores the JSON body.
func CreateRecord[T any](s recordStore[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in T
		if err := c.BodyParser(&in); err != nil {
			return respondError(c, errInvalidBody)
		}
		rec, err := s.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// UpdateRecord replaces the record named by :id with the JSON body.
func UpdateRecord[T any](s recordStore[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		var in T
		if err := c.BodyParser(&in); err != nil {
			return respondError(c, errInvalidBody)
		}
		rec, err := s.Update(c.UserContext(), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rec)
	}
}

// DeleteRecord removes the record named by :id.
func DeleteRecord[T any](s recordStore[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		if err := s.Delete(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// recordRoutes mounts the five CRUD routes on r. A nil list uses ListRecords.
func recordRoutes[T any](r fiber.Router, s recordStore[T], list fiber.Handler) {
	if list == nil {
		list = ListRecords(s)
	}
	r.Get("/", list)
	r.Post("/", CreateRecord(s))
	r.Get("/:id", GetRecord(s))
	r.Put("/:id", UpdateRecord(s))
	r.Delete("/:id", DeleteRecord(s))
}
