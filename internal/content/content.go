// Package content lists video files in the content tree, either directly from
// a storage backend or remotely through the content server's HTTP API.
package content

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"vaultcast/internal/media"
	"vaultcast/internal/storage"
)

// ErrDirectoryNotFound is returned when the listed directory does not exist.
var ErrDirectoryNotFound = errors.New("content: directory not found")

// FileEntry is one video file. Name is relative to the listed directory.
type FileEntry struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Listing is the response of GET /api/files/:dir.
type Listing struct {
	Directory string      `json:"directory"`
	Files     []FileEntry `json:"files"`
}

// Names returns the file names in listing order.
func (l Listing) Names() []string {
	out := make([]string, 0, len(l.Files))
	for _, f := range l.Files {
		out = append(out, f.Name)
	}
	return out
}

// Lister lists the video files of a directory.
type Lister interface {
	List(ctx context.Context, dir string, recursive bool) (Listing, error)
}

// Library lists video files straight from a storage backend.
type Library struct {
	store storage.Storage
}

var _ Lister = (*Library)(nil)

// NewLibrary wraps store.
func NewLibrary(store storage.Storage) *Library {
	return &Library{store: store}
}

// Storage exposes the underlying backend for raw file serving.
func (l *Library) Storage() storage.Storage { return l.store }

// List returns the video files under dir sorted by name.
func (l *Library) List(ctx context.Context, dir string, recursive bool) (Listing, error) {
	clean, err := storage.CleanKey(dir, true)
	if err != nil {
		return Listing{}, err
	}
	objs, err := l.store.List(ctx, clean, recursive)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Listing{}, ErrDirectoryNotFound
		}
		return Listing{}, err
	}

	out := Listing{Directory: clean, Files: make([]FileEntry, 0, len(objs))}
	prefix := ""
	if clean != "" {
		prefix = clean + "/"
	}
	for _, o := range objs {
		if !media.IsVideo(o.Key) {
			continue
		}
		name := strings.TrimPrefix(o.Key, prefix)
		if strings.HasPrefix(path.Base(name), ".") {
			continue
		}
		out.Files = append(out.Files, FileEntry{Name: name, Size: o.Size, Modified: o.LastModified.UTC()})
	}
	return out, nil
}
