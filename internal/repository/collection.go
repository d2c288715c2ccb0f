package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record is implemented by every model stored through a Collection.
type Record interface {
	RecordID() string
	RecordKey() string
	RecordTitle() string
}

// Collection is a typed view over one named collection.
type Collection[T Record] struct {
	repo DocumentRepository
	name string
}

// NewCollection returns the typed collection called name.
func NewCollection[T Record](repo DocumentRepository, name string) *Collection[T] {
	return &Collection[T]{repo: repo, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) encode(rec T) (*Document, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", c.name, err)
	}
	return &Document{
		Collection: c.name,
		ID:         rec.RecordID(),
		Key:        rec.RecordKey(),
		Title:      rec.RecordTitle(),
		Data:       data,
	}, nil
}

func (c *Collection[T]) decode(doc *Document) (T, error) {
	var rec T
	if err := json.Unmarshal(doc.Data, &rec); err != nil {
		return rec, fmt.Errorf("decode %s record %s: %w", c.name, doc.ID, err)
	}
	return rec, nil
}

// Create stores rec. rec must already carry its ID and timestamps.
func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	doc, err := c.encode(rec)
	if err != nil {
		return zero, err
	}
	stored, err := c.repo.Create(ctx, doc)
	if err != nil {
		return zero, err
	}
	return c.decode(stored)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.repo.FindByID(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

// GetByKey returns the record with the given unique key.
func (c *Collection[T]) GetByKey(ctx context.Context, key string) (T, error) {
	var zero T
	doc, err := c.repo.FindByKey(ctx, c.name, key)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

// List returns a page of records.
func (c *Collection[T]) List(ctx context.Context, pq PageQuery) (*PageResult[T], error) {
	res, err := c.repo.List(ctx, c.name, pq)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(res.Items))
	for i := range res.Items {
		rec, err := c.decode(&res.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return &PageResult[T]{Items: items, Total: res.Total}, nil
}

// Update replaces the stored record that has rec's ID.
func (c *Collection[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	doc, err := c.encode(rec)
	if err != nil {
		return zero, err
	}
	stored, err := c.repo.Update(ctx, doc)
	if err != nil {
		return zero, err
	}
	return c.decode(stored)
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.repo.Delete(ctx, c.name, id)
}
