package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vaultcast/internal/model"
	"vaultcast/internal/repository"
	"vaultcast/internal/validation"
)

// ListQuery holds pagination and search parameters. Limit 0 returns everything.
type ListQuery struct {
	Limit  int
	Offset int
	Search string
}

// ListResult is the service-level DTO for paginated records.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// entity is a pointer to a record type that embeds model.Base.
type entity[T any] interface {
	*T
	Stamp(id string, now time.Time)
	BaseRecord() *model.Base
}

// Records implements the create/read/update/delete use cases shared by every
// collection: validation, id and timestamp assignment, and error translation.
type Records[T repository.Record, PT entity[T]] struct {
	col          *repository.Collection[T]
	now          func() time.Time
	newID        func() string
	check        func(ctx context.Context, rec *T) error
	beforeDelete func(ctx context.Context, rec *T) error
}

// NewRecords returns the use cases for the named collection.
func NewRecords[T repository.Record, PT entity[T]](repo repository.DocumentRepository, name string) *Records[T, PT] {
	return &Records[T, PT]{
		col:   repository.NewCollection[T](repo, name),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Collection returns the collection name.
func (r *Records[T, PT]) Collection() string { return r.col.Name() }

func (r *Records[T, PT]) validate(ctx context.Context, rec *T) error {
	if err := validation.Struct(rec); err != nil {
		return err
	}
	if r.check != nil {
		return r.check(ctx, rec)
	}
	return nil
}

// List returns a page of records, newest first.
func (r *Records[T, PT]) List(ctx context.Context, q ListQuery) (*ListResult[T], error) {
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	res, err := r.col.List(ctx, repository.PageQuery{Limit: q.Limit, Offset: q.Offset, Search: q.Search})
	if err != nil {
		return nil, err
	}
	return &ListResult[T]{Items: res.Items, Total: res.Total}, nil
}

// All returns every record in the collection.
func (r *Records[T, PT]) All(ctx context.Context) ([]T, error) {
	res, err := r.List(ctx, ListQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Get returns a record by ID.
func (r *Records[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// GetByKey returns a record by its unique key.
func (r *Records[T, PT]) GetByKey(ctx context.Context, key string) (*T, error) {
	rec, err := r.col.GetByKey(ctx, key)
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// Create validates rec, assigns a new ID and stores it.
func (r *Records[T, PT]) Create(ctx context.Context, rec T) (*T, error) {
	base := PT(&rec).BaseRecord()
	*base = model.Base{}
	if err := r.validate(ctx, &rec); err != nil {
		return nil, err
	}
	PT(&rec).Stamp(r.newID(), r.now())

	stored, err := r.col.Create(ctx, rec)
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

// Update replaces the record with the given ID, keeping its creation time.
func (r *Records[T, PT]) Update(ctx context.Context, id string, rec T) (*T, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	*PT(&rec).BaseRecord() = *PT(existing).BaseRecord()
	if err := r.validate(ctx, &rec); err != nil {
		return nil, err
	}
	PT(&rec).Stamp(id, r.now())

	stored, err := r.col.Update(ctx, rec)
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

// Delete removes the record with the given ID.
func (r *Records[T, PT]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if r.beforeDelete != nil {
		existing, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := r.beforeDelete(ctx, existing); err != nil {
			return err
		}
	}
	return translate(r.col.Delete(ctx, id))
}
