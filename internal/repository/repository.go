// Package repository contains the record store abstraction.
//
// Every VaultCast record lives in a named collection as a JSON document.
// Implementations live in subpackages (postgres, mongo); Collection gives a
// typed view over one collection.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a unique key is already taken in the collection.
	ErrConflict = errors.New("document key already exists")
)

// Document is the stored form of a record.
type Document struct {
	Collection string
	ID         string
	// Key is the collection-unique key (e.g. filename). Empty means no uniqueness.
	Key string
	// Title is denormalized for search.
	Title     string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentRepository defines data access for documents. No business logic here,
// strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document. Returns ErrConflict if Key is taken.
	Create(ctx context.Context, doc *Document) (*Document, error)

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, collection, id string) (*Document, error)

	// FindByKey returns a document by its unique key or ErrNotFound.
	FindByKey(ctx context.Context, collection, key string) (*Document, error)

	// List returns a page of documents and the total matching count.
	List(ctx context.Context, collection string, pq PageQuery) (*PageResult[Document], error)

	// Update replaces the document identified by doc.ID. Returns ErrNotFound or ErrConflict.
	Update(ctx context.Context, doc *Document) (*Document, error)

	// Delete removes a document by ID. Returns ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, collection, id string) error
}

// PageQuery holds limit/offset pagination parameters and an optional
// case-insensitive search over key and title.
type PageQuery struct {
	Limit  int
	Offset int
	Search string
}

// All is a PageQuery without a limit.
var All = PageQuery{Limit: 0}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
