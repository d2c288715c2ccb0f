// Package memory is an in-process repository.DocumentRepository used for
// local development (STORE_DRIVER=memory) and service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vaultcast/internal/repository"
)

type docKey struct{ collection, id string }

// RecordsMemory keeps documents in maps guarded by a mutex.
type RecordsMemory struct {
	mu   sync.RWMutex
	docs map[docKey]repository.Document
	now  func() time.Time
}

var _ repository.DocumentRepository = (*RecordsMemory)(nil)

// NewRecordsMemory returns an empty store.
func NewRecordsMemory() *RecordsMemory {
	return &RecordsMemory{
		docs: make(map[docKey]repository.Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func clone(d repository.Document) *repository.Document {
	d.Data = append([]byte(nil), d.Data...)
	return &d
}

func (r *RecordsMemory) keyTaken(collection, key, exceptID string) bool {
	if key == "" {
		return false
	}
	for k, d := range r.docs {
		if k.collection == collection && d.Key == key && d.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *RecordsMemory) Create(ctx context.Context, doc *repository.Document) (*repository.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := docKey{doc.Collection, doc.ID}
	if _, ok := r.docs[k]; ok || r.keyTaken(doc.Collection, doc.Key, "") {
		return nil, repository.ErrConflict
	}
	d := *clone(*doc)
	d.CreatedAt = r.now()
	d.UpdatedAt = d.CreatedAt
	r.docs[k] = d
	return clone(d), nil
}

func (r *RecordsMemory) FindByID(ctx context.Context, collection, id string) (*repository.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[docKey{collection, id}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(d), nil
}

func (r *RecordsMemory) FindByKey(ctx context.Context, collection, key string) (*repository.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if key != "" {
		for k, d := range r.docs {
			if k.collection == collection && d.Key == key {
				return clone(d), nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *RecordsMemory) List(ctx context.Context, collection string, pq repository.PageQuery) (*repository.PageResult[repository.Document], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(pq.Search)
	matched := make([]repository.Document, 0)
	for k, d := range r.docs {
		if k.collection != collection {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.Key), needle) && !strings.Contains(strings.ToLower(d.Title), needle) {
			continue
		}
		matched = append(matched, *clone(d))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if pq.Offset > 0 {
		if pq.Offset >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[pq.Offset:]
		}
	}
	if pq.Limit > 0 && len(matched) > pq.Limit {
		matched = matched[:pq.Limit]
	}
	return &repository.PageResult[repository.Document]{Items: matched, Total: total}, nil
}

func (r *RecordsMemory) Update(ctx context.Context, doc *repository.Document) (*repository.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := docKey{doc.Collection, doc.ID}
	old, ok := r.docs[k]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.keyTaken(doc.Collection, doc.Key, doc.ID) {
		return nil, repository.ErrConflict
	}
	d := *clone(*doc)
	d.CreatedAt = old.CreatedAt
	d.UpdatedAt = r.now()
	r.docs[k] = d
	return clone(d), nil
}

func (r *RecordsMemory) Delete(ctx context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := docKey{collection, id}
	if _, ok := r.docs[k]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, k)
	return nil
}
