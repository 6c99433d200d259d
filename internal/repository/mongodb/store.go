package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/clinic-registry/internal/repository"
)

const clinicsCollection = "clinics"

var _ repository.Store = (*Store)(nil)

// Store is the document backend: one clinics collection with embedded services.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	clinics repository.ClinicRepository
}

func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:  client,
		db:      db,
		clinics: NewClinicRepository(db.Collection(clinicsCollection)),
	}
}

func (s *Store) Clinics() repository.ClinicRepository {
	return s.clinics
}

// Init ensures the unique clinic_id index and a lookup index on embedded service ids.
func (s *Store) Init(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clinic_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("clinic_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "services.service_id", Value: 1}},
			Options: options.Index().SetName("services_service_id"),
		},
	}

	if _, err := s.db.Collection(clinicsCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", translateError(err))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
