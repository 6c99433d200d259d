package mongodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func sampleClinic() *model.Clinic {
	return (&model.ClinicCreate{
		ClinicID:      "CLN-001",
		ClinicName:    "Harbor Family Practice",
		BusinessName:  "Harbor Health LLC",
		StreetAddress: "12 Wharf Road",
		City:          "Portland",
		State:         "ME",
		Country:       "US",
		ZipCode:       "04101",
		Latitude:      ptr(43.6591),
		Services: []model.ServiceCreate{
			{ServiceID: "SVC-1", ServiceName: "General consult", ServiceCode: "GC", AveragePrice: ptr(80.0)},
			{ServiceID: "SVC-2", ServiceName: "Vaccination", ServiceCode: "VAX", IsActive: ptr(false)},
		},
	}).ToEntity()
}

func TestClinicRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns identity", func(mt *mtest.T) {
		repo := NewClinicRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		clinic := sampleClinic()
		before := time.Now().UTC().Add(-time.Second)
		require.NoError(mt, repo.Create(context.Background(), clinic))

		assert.True(mt, primitive.IsValidObjectID(clinic.ID))
		assert.True(mt, clinic.DateCreated.After(before))
		require.Len(mt, clinic.Services, 2)
		assert.True(mt, primitive.IsValidObjectID(clinic.Services[0].ID))
		assert.NotEqual(mt, clinic.Services[0].ID, clinic.Services[1].ID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})

	mt.Run("duplicate clinic id", func(mt *mtest.T) {
		repo := NewClinicRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: clinics index: clinic_id_unique",
		}))

		clinic := sampleClinic()
		err := repo.Create(context.Background(), clinic)
		require.Error(mt, err)
		assert.ErrorIs(mt, err, repository.ErrDuplicateKey)
		assert.Empty(mt, clinic.ID)
		assert.Empty(mt, clinic.Services[0].ID)
	})
}

func TestClinicRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes embedded services", func(mt *mtest.T) {
		repo := NewClinicRepository(mt.Coll)

		clinicOID := primitive.NewObjectID()
		serviceOID := primitive.NewObjectID()
		created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
		ns := fmt.Sprintf("%s.%s", mt.DB.Name(), mt.Coll.Name())

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: clinicOID},
			{Key: "clinic_id", Value: "CLN-001"},
			{Key: "clinic_name", Value: "Harbor Family Practice"},
			{Key: "business_name", Value: "Harbor Health LLC"},
			{Key: "street_address", Value: "12 Wharf Road"},
			{Key: "city", Value: "Portland"},
			{Key: "state", Value: "ME"},
			{Key: "country", Value: "US"},
			{Key: "zip_code", Value: "04101"},
			{Key: "latitude", Value: 43.6591},
			{Key: "longitude", Value: nil},
			{Key: "date_created", Value: created},
			{Key: "services", Value: bson.A{
				bson.D{
					{Key: "_id", Value: serviceOID},
					{Key: "service_id", Value: "SVC-1"},
					{Key: "service_name", Value: "General consult"},
					{Key: "service_code", Value: "GC"},
					{Key: "service_description", Value: nil},
					{Key: "average_price", Value: 80.0},
					{Key: "is_active", Value: true},
				},
			}},
		}))

		clinics, err := repo.List(context.Background(), 0, 10)
		require.NoError(mt, err)
		require.Len(mt, clinics, 1)

		got := clinics[0]
		assert.Equal(mt, clinicOID.Hex(), got.ID)
		assert.Equal(mt, "CLN-001", got.ClinicID)
		assert.Equal(mt, ptr(43.6591), got.Latitude)
		assert.Nil(mt, got.Longitude)
		assert.True(mt, created.Equal(got.DateCreated))
		require.Len(mt, got.Services, 1)
		assert.Equal(mt, serviceOID.Hex(), got.Services[0].ID)
		assert.Nil(mt, got.Services[0].ServiceDescription)
		assert.Equal(mt, ptr(80.0), got.Services[0].AveragePrice)
		assert.True(mt, got.Services[0].IsActive)
	})

	mt.Run("sends skip limit and sort", func(mt *mtest.T) {
		repo := NewClinicRepository(mt.Coll)
		ns := fmt.Sprintf("%s.%s", mt.DB.Name(), mt.Coll.Name())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		clinics, err := repo.List(context.Background(), 20, 5)
		require.NoError(mt, err)
		assert.NotNil(mt, clinics)
		assert.Empty(mt, clinics)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		assert.EqualValues(mt, 20, started.Command.Lookup("skip").AsInt64())
		assert.EqualValues(mt, 5, started.Command.Lookup("limit").AsInt64())
		sort := started.Command.Lookup("sort").Document()
		assert.EqualValues(mt, 1, sort.Lookup("_id").AsInt64())
	})

	mt.Run("zero limit skips the round trip", func(mt *mtest.T) {
		repo := NewClinicRepository(mt.Coll)

		clinics, err := repo.List(context.Background(), 0, 0)
		require.NoError(mt, err)
		assert.Empty(mt, clinics)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestStore_Init(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates indexes", func(mt *mtest.T) {
		store := NewStore(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, store.Init(context.Background()))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "createIndexes", started.CommandName)
		assert.Equal(mt, clinicsCollection, started.Command.Lookup("createIndexes").StringValue())

		indexes, err := started.Command.Lookup("indexes").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, indexes, 2)
		first := indexes[0].Document()
		assert.Equal(mt, "clinic_id_unique", first.Lookup("name").StringValue())
		assert.True(mt, first.Lookup("unique").Boolean())
	})

	mt.Run("ping", func(mt *mtest.T) {
		store := NewStore(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, store.Ping(context.Background()))
	})
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "duplicate key",
			err:  mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000"}}},
			want: repository.ErrDuplicateKey,
		},
		{
			name: "network error",
			err:  mongo.CommandError{Message: "connection reset", Labels: []string{"NetworkError"}},
			want: repository.ErrUnavailable,
		},
		{name: "deadline", err: context.DeadlineExceeded, want: repository.ErrUnavailable},
		{name: "disconnected", err: mongo.ErrClientDisconnected, want: repository.ErrUnavailable},
		{name: "other", err: errors.New("bad value"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			require.Error(t, got)
			if tt.want == nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
	assert.NoError(t, translateError(nil))
}
