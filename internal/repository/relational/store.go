package relational

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-registry/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store is the relational backend: clinics and services tables joined by a foreign key.
type Store struct {
	db      *sqlx.DB
	dialect string
	clinics repository.ClinicRepository
}

func NewStore(db *sqlx.DB, dialect string) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		clinics: NewClinicRepository(NewBaseRepository(db)),
	}
}

func (s *Store) Clinics() repository.ClinicRepository {
	return s.clinics
}

func (s *Store) Init(ctx context.Context) error {
	stmts, ok := schema[s.dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", s.dialect)
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", translateError(err))
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}
