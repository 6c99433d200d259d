package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
)

// clinicDocument is one clinic with its services embedded.
type clinicDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ClinicID      string             `bson:"clinic_id"`
	ClinicName    string             `bson:"clinic_name"`
	BusinessName  string             `bson:"business_name"`
	StreetAddress string             `bson:"street_address"`
	City          string             `bson:"city"`
	State         string             `bson:"state"`
	Country       string             `bson:"country"`
	ZipCode       string             `bson:"zip_code"`
	Latitude      *float64           `bson:"latitude"`
	Longitude     *float64           `bson:"longitude"`
	DateCreated   time.Time          `bson:"date_created"`
	Services      []serviceDocument  `bson:"services"`
}

type serviceDocument struct {
	ID                 primitive.ObjectID `bson:"_id"`
	ServiceID          string             `bson:"service_id"`
	ServiceName        string             `bson:"service_name"`
	ServiceCode        string             `bson:"service_code"`
	ServiceDescription *string            `bson:"service_description"`
	AveragePrice       *float64           `bson:"average_price"`
	IsActive           bool               `bson:"is_active"`
}

func newClinicDocument(c *model.Clinic, created time.Time) *clinicDocument {
	doc := &clinicDocument{
		ClinicID:      c.ClinicID,
		ClinicName:    c.ClinicName,
		BusinessName:  c.BusinessName,
		StreetAddress: c.StreetAddress,
		City:          c.City,
		State:         c.State,
		Country:       c.Country,
		ZipCode:       c.ZipCode,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		DateCreated:   created,
		Services:      make([]serviceDocument, 0, len(c.Services)),
	}
	for _, svc := range c.Services {
		doc.Services = append(doc.Services, serviceDocument{
			ID:                 primitive.NewObjectID(),
			ServiceID:          svc.ServiceID,
			ServiceName:        svc.ServiceName,
			ServiceCode:        svc.ServiceCode,
			ServiceDescription: svc.ServiceDescription,
			AveragePrice:       svc.AveragePrice,
			IsActive:           svc.IsActive,
		})
	}
	return doc
}

func (d *clinicDocument) toModel() *model.Clinic {
	c := &model.Clinic{
		ID:            d.ID.Hex(),
		ClinicID:      d.ClinicID,
		ClinicName:    d.ClinicName,
		BusinessName:  d.BusinessName,
		StreetAddress: d.StreetAddress,
		City:          d.City,
		State:         d.State,
		Country:       d.Country,
		ZipCode:       d.ZipCode,
		Latitude:      d.Latitude,
		Longitude:     d.Longitude,
		DateCreated:   d.DateCreated.UTC(),
		Services:      make([]model.Service, 0, len(d.Services)),
	}
	for _, svc := range d.Services {
		c.Services = append(c.Services, model.Service{
			ID:                 svc.ID.Hex(),
			ServiceID:          svc.ServiceID,
			ServiceName:        svc.ServiceName,
			ServiceCode:        svc.ServiceCode,
			ServiceDescription: svc.ServiceDescription,
			AveragePrice:       svc.AveragePrice,
			IsActive:           svc.IsActive,
		})
	}
	return c
}

type clinicRepository struct {
	coll *mongo.Collection
}

func NewClinicRepository(coll *mongo.Collection) repository.ClinicRepository {
	return &clinicRepository{coll: coll}
}

// Create writes the clinic as a single document, so services are stored atomically with it.
func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	created := time.Now().UTC().Truncate(time.Millisecond)
	doc := newClinicDocument(clinic, created)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", translateError(err))
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to create clinic: unexpected inserted id type %T", res.InsertedID)
	}

	clinic.ID = id.Hex()
	clinic.DateCreated = created
	for i := range clinic.Services {
		clinic.Services[i].ID = doc.Services[i].ID.Hex()
	}
	return nil
}

func (r *clinicRepository) List(ctx context.Context, skip, limit int) ([]*model.Clinic, error) {
	// a zero limit means "no limit" to the server
	if limit < 1 {
		return []*model.Clinic{}, nil
	}
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", translateError(err))
	}
	defer cursor.Close(ctx)

	var docs []clinicDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode clinics: %w", translateError(err))
	}

	clinics := make([]*model.Clinic, 0, len(docs))
	for i := range docs {
		clinics = append(clinics, docs[i].toModel())
	}
	return clinics, nil
}
