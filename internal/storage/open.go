package storage

import (
	"context"
	"fmt"
	"os"

	"vaultcast/internal/config"
)

// Open returns the backend named by driver: "local" (root is created when
// missing) or "minio".
func Open(ctx context.Context, driver, root string, mc config.MinIOConfig) (Storage, error) {
	switch driver {
	case "", "local":
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create storage root: %w", err)
		}
		return NewLocal(root)
	case "minio":
		return NewMinIO(ctx, mc)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
