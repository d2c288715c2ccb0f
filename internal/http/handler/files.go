package handler

import (
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/content"
	"vaultcast/internal/storage"
)

// presignExpiry bounds the lifetime of redirect URLs handed out for S3 objects.
const presignExpiry = 15 * time.Minute

func unescapedParam(c *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", storage.ErrInvalidKey
	}
	return v, nil
}

// joinKey rejects traversal in either part before joining them.
func joinKey(dir, rest string) (string, error) {
	d, err := storage.CleanKey(dir, false)
	if err != nil {
		return "", err
	}
	r, err := storage.CleanKey(rest, false)
	if err != nil {
		return "", err
	}
	return path.Join(d, r), nil
}

// ListFiles lists the video files of a content directory.
//
// @Summary List video files
// @Tags content
// @Produce json
// @Param dir path string true "directory, URL-escaped"
// @Param recursive query bool false "include subdirectories"
// @Success 200 {object} content.Listing
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/files/{dir} [get]
func ListFiles(l content.Lister) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dir, err := unescapedParam(c, "dir")
		if err != nil {
			return respondError(c, err)
		}
		listing, err := l.List(c.UserContext(), dir, c.QueryBool("recursive"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(listing)
	}
}

// ServeFile streams a raw file. Local files support byte ranges; S3 objects
// are served through a presigned redirect.
//
// @Summary Download video file
// @Tags content
// @Produce octet-stream
// @Param dir path string true "directory, URL-escaped"
// @Param path path string true "file path below the directory"
// @Success 200 {file} binary
// @Success 302
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/files/{dir}/{path} [get]
func ServeFile(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dir, err := unescapedParam(c, "dir")
		if err != nil {
			return respondError(c, err)
		}
		rest, err := unescapedParam(c, "*")
		if err != nil {
			return respondError(c, err)
		}
		key, err := joinKey(dir, rest)
		if err != nil {
			return respondError(c, err)
		}

		if lf, ok := store.(storage.LocalFiler); ok {
			p, err := lf.LocalPath(key)
			if err != nil {
				return respondError(c, err)
			}
			st, err := os.Stat(p)
			if err != nil || st.IsDir() {
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return respondError(c, err)
				}
				return respondError(c, storage.ErrNotFound)
			}
			// SendFile routes the path through a request URI, so '?' and '#' must be escaped.
			return c.SendFile((&url.URL{Path: filepath.ToSlash(p)}).EscapedPath(), false)
		}

		u, err := store.PresignGet(c.UserContext(), key, presignExpiry)
		if err != nil {
			return respondError(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}

// RegisterContentRoutes mounts the content server API.
func RegisterContentRoutes(app *fiber.App, lib *content.Library) {
	files := app.Group("/api/files")
	files.Get("/:dir", ListFiles(lib))
	files.Get("/:dir/*", ServeFile(lib.Storage()))
}
