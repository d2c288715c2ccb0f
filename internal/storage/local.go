package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"
)

// localStorage implements Storage on a directory of the local filesystem.
type localStorage struct {
	root string
}

// NewLocal returns a Storage rooted at dir. The directory must exist.
func NewLocal(dir string) (Storage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve content root: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", abs)
	}
	return &localStorage{root: abs}, nil
}

var (
	_ Storage    = (*localStorage)(nil)
	_ LocalFiler = (*localStorage)(nil)
)

// LocalPath maps key to an absolute path inside the root.
func (l *localStorage) LocalPath(key string) (string, error) {
	k, err := CleanKey(key, true)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(k)), nil
}

func infoFor(key string, fi fs.FileInfo) ObjectInfo {
	return ObjectInfo{
		Key:          key,
		Size:         fi.Size(),
		ContentType:  mime.TypeByExtension(path.Ext(key)),
		LastModified: fi.ModTime(),
	}
}

// Put writes the object to disk, creating parent directories.
func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	p, err := l.LocalPath(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ObjectInfo{}, err
	}
	f, err := os.Create(p)
	if err != nil {
		return ObjectInfo{}, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return ObjectInfo{}, err
	}
	k, _ := CleanKey(key, false)
	ct := opt.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(path.Ext(k))
	}
	return ObjectInfo{Key: k, Size: n, ContentType: ct, LastModified: time.Now(), Metadata: opt.Metadata}, nil
}

// Get opens the object for reading.
func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := l.LocalPath(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, ErrNotFound
	}
	k, _ := CleanKey(key, false)
	return f, infoFor(k, fi), nil
}

// Delete removes the object file.
func (l *localStorage) Delete(ctx context.Context, key string) error {
	p, err := l.LocalPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// List walks the directory named by prefix. Hidden entries are skipped.
func (l *localStorage) List(ctx context.Context, prefix string, recursive bool) ([]ObjectInfo, error) {
	dir, err := l.LocalPath(prefix)
	if err != nil {
		return nil, err
	}
	base, _ := CleanKey(prefix, true)

	st, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !st.IsDir() {
		return nil, ErrNotFound
	}

	out := make([]ObjectInfo, 0)
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		if d.Name()[0] == '.' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !recursive {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, infoFor(path.Join(base, filepath.ToSlash(rel)), fi))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignGet is not available for local files; callers serve them directly.
func (l *localStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", ErrPresignUnsupported
}
