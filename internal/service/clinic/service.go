package clinic

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

const (
	// EventClinicCreated is published after a clinic has been stored.
	EventClinicCreated = "clinic.created"
	// EventsChannel carries every clinic event.
	EventsChannel = "clinics.events"
)

type ClinicServicer interface {
	CreateClinic(ctx context.Context, req *model.ClinicCreate) (*model.Clinic, error)
	ListClinics(ctx context.Context, skip, limit int) ([]*model.Clinic, error)
}

type Service struct {
	repo      repository.ClinicRepository
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewService wires the clinic use cases. publisher and m may be nil, in which
// case no events are emitted or counted.
func NewService(repo repository.ClinicRepository, publisher messaging.Publisher, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "clinic_service").Logger()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    l,
	}
}

// CreateClinic stores the clinic described by req and returns it with its
// storage ids and creation date filled in. Repository errors are returned as is.
func (s *Service) CreateClinic(ctx context.Context, req *model.ClinicCreate) (*model.Clinic, error) {
	clinic := req.ToEntity()

	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, err
	}

	s.publishCreated(ctx, clinic)
	return clinic, nil
}

func (s *Service) ListClinics(ctx context.Context, skip, limit int) ([]*model.Clinic, error) {
	return s.repo.List(ctx, skip, limit)
}

// publishCreated is best effort: the clinic is already committed.
func (s *Service) publishCreated(ctx context.Context, clinic *model.Clinic) {
	if s.publisher == nil {
		return
	}

	status := "success"
	if err := s.publisher.Publish(ctx, EventClinicCreated, clinic); err != nil {
		status = "error"
		s.logger.Warn().
			Err(err).
			Str("clinic_id", clinic.ClinicID).
			Msg("failed to publish clinic event")
	}

	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(EventClinicCreated, status).Inc()
	}
}
