package clinic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

type fakeRepository struct {
	created   []*model.Clinic
	createErr error
	listErr   error
	gotSkip   int
	gotLimit  int
}

func (f *fakeRepository) Create(_ context.Context, clinic *model.Clinic) error {
	if f.createErr != nil {
		return f.createErr
	}
	clinic.ID = fmt.Sprint(len(f.created) + 1)
	clinic.DateCreated = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := range clinic.Services {
		clinic.Services[i].ID = fmt.Sprintf("%s-%d", clinic.ID, i)
	}
	f.created = append(f.created, clinic)
	return nil
}

func (f *fakeRepository) List(_ context.Context, skip, limit int) ([]*model.Clinic, error) {
	f.gotSkip, f.gotLimit = skip, limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.created, nil
}

type event struct {
	eventType string
	payload   interface{}
}

type fakePublisher struct {
	events []event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event{eventType: eventType, payload: payload})
	return nil
}

func createRequest() *model.ClinicCreate {
	return &model.ClinicCreate{
		ClinicID:      "CLN-1",
		ClinicName:    "Northside",
		BusinessName:  "Northside Care",
		StreetAddress: "1 Main St",
		City:          "Austin",
		State:         "TX",
		Country:       "US",
		ZipCode:       "73301",
		Services: []model.ServiceCreate{
			{ServiceID: "S1", ServiceName: "Consult", ServiceCode: "C"},
		},
	}
}

func TestService_CreateClinic(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "clinics", "test")
	svc := NewService(repo, pub, m, nil)

	clinic, err := svc.CreateClinic(context.Background(), createRequest())
	require.NoError(t, err)

	assert.Equal(t, "1", clinic.ID)
	assert.False(t, clinic.DateCreated.IsZero())
	require.Len(t, clinic.Services, 1)
	assert.True(t, clinic.Services[0].IsActive)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventClinicCreated, pub.events[0].eventType)
	assert.Same(t, clinic, pub.events[0].payload)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues(EventClinicCreated, "success")))
}

func TestService_CreateClinic_RepositoryErrorPassesThrough(t *testing.T) {
	repo := &fakeRepository{createErr: fmt.Errorf("failed to create clinic: %w", repository.ErrDuplicateKey)}
	pub := &fakePublisher{}
	svc := NewService(repo, pub, nil, nil)

	clinic, err := svc.CreateClinic(context.Background(), createRequest())
	assert.Nil(t, clinic)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	assert.Empty(t, pub.events)
}

func TestService_CreateClinic_PublishFailureIsIgnored(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{err: errors.New("broker down")}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "clinics", "test")
	svc := NewService(repo, pub, m, nil)

	clinic, err := svc.CreateClinic(context.Background(), createRequest())
	require.NoError(t, err)
	assert.NotNil(t, clinic)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues(EventClinicCreated, "error")))
}

func TestService_CreateClinic_WithoutPublisher(t *testing.T) {
	svc := NewService(&fakeRepository{}, nil, nil, nil)

	clinic, err := svc.CreateClinic(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "1", clinic.ID)
}

func TestService_ListClinics(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.CreateClinic(context.Background(), createRequest())
	require.NoError(t, err)

	clinics, err := svc.ListClinics(context.Background(), 5, 20)
	require.NoError(t, err)
	assert.Len(t, clinics, 1)
	assert.Equal(t, 5, repo.gotSkip)
	assert.Equal(t, 20, repo.gotLimit)

	repo.listErr = fmt.Errorf("failed to list clinics: %w", repository.ErrUnavailable)
	_, err = svc.ListClinics(context.Background(), 0, 10)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}
