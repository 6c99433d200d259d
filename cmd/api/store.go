package main

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-registry/internal/config"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	"github.com/jwalitptl/clinic-registry/internal/repository/mongodb"
	"github.com/jwalitptl/clinic-registry/internal/repository/relational"
)

// openStore connects the backend selected by store.backend.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres, config.BackendSQLite:
		db, err := relational.NewDB(ctx, cfg.Store.Backend, cfg.Database)
		if err != nil {
			return nil, err
		}
		return relational.NewStore(db, cfg.Store.Backend), nil
	case config.BackendMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return mongodb.NewStore(client, cfg.Mongo.Database), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
