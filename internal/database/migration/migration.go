package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vaultcast/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_records",
		SQL: `CREATE TABLE IF NOT EXISTS records (
  collection TEXT        NOT NULL,
  id         UUID        NOT NULL,
  key        TEXT,
  title      TEXT        NOT NULL DEFAULT '',
  data       JSONB       NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (collection, id)
);`,
	},
	{
		Name: "create_unique_index_records_key",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_records_collection_key ON records (collection, key) WHERE key IS NOT NULL;`,
	},
	{
		Name: "create_index_records_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_records_collection_created_at ON records (collection, created_at DESC, id DESC);`,
	},
	{
		Name: "create_index_records_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_records_collection_title ON records (collection, lower(title));`,
	},
}

// EnsureMigrated checks if the records table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	log := logging.Component("database").With().Str("db_host", dbHost).Logger()
	start := time.Now()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	query := "SELECT to_regclass('public.records') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		if err := runStep(ctx, db, log, step, start); err != nil {
			return err
		}
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()
	return nil
}

func runStep(ctx context.Context, db *sql.DB, log zerolog.Logger, step migrationStep, start time.Time) error {
	stepStart := time.Now()
	if _, err := db.ExecContext(ctx, step.SQL); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Str("migration_step", step.Name).
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
		return fmt.Errorf("migration step %s failed: %w", step.Name, err)
	}

	log.Info().
		Str("event", "db_migration_step").
		Str("status", "success").
		Str("migration_step", step.Name).
		Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
		Send()
	return nil
}
