package service

import (
	"errors"

	"vaultcast/internal/repository"
)

var (
	ErrIDRequired          = errors.New("id is required")
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("record already exists")
	ErrInvalidKind         = errors.New("unknown video kind")
	ErrProjectHasOpenTasks = errors.New("project has open tasks")
	ErrFileNotAllowed      = errors.New("file is not allowed for this profile")
	ErrMailUnavailable     = errors.New("mail sending is not configured")
	ErrAIUnavailable       = errors.New("ai provider is not configured")
	ErrImageTooLarge       = errors.New("image exceeds the maximum size")
	ErrUnsupportedImage    = errors.New("file is not an image")
)

// translate maps repository sentinels onto service sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	default:
		return err
	}
}
