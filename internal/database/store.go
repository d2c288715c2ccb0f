package database

import (
	"context"
	"fmt"

	"vaultcast/internal/config"
	"vaultcast/internal/database/migration"
	"vaultcast/internal/model"
	"vaultcast/internal/repository"
	"vaultcast/internal/repository/memory"
	"vaultcast/internal/repository/mongodb"
	"vaultcast/internal/repository/postgres"
)

// Collections lists every record collection VaultCast uses.
var Collections = []string{
	model.KindMovies,
	model.KindTV,
	model.CollectionTasks,
	model.CollectionProjects,
	model.CollectionEvents,
	model.CollectionEssentials,
	model.CollectionDecisions,
	model.CollectionMessageProfiles,
	model.CollectionEmailDesigns,
	model.CollectionEmailTemplates,
}

// Store is an opened record store.
type Store struct {
	Driver string
	Repo   repository.DocumentRepository
	ping   func(context.Context) error
	close  func(context.Context) error
}

// PingContext checks connectivity of the underlying database.
func (s *Store) PingContext(ctx context.Context) error { return s.ping(ctx) }

// Close releases the underlying connections.
func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects the backend selected by cfg.Driver and prepares its schema.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	switch cfg.Driver {
	case "", "postgres":
		db, err := NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, cfg.Postgres.Host); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{
			Driver: "postgres",
			Repo:   postgres.NewRecordsPostgres(db),
			ping:   db.PingContext,
			close:  func(context.Context) error { return db.Close() },
		}, nil
	case "mongo":
		client, err := NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		repo := mongodb.NewRecordsMongo(client.Database(cfg.Mongo.Database))
		if err := repo.EnsureIndexes(ctx, Collections...); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Driver: "mongo",
			Repo:   repo,
			ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:  client.Disconnect,
		}, nil
	case "memory":
		return &Store{
			Driver: "memory",
			Repo:   memory.NewRecordsMemory(),
			ping:   func(context.Context) error { return nil },
			close:  func(context.Context) error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
