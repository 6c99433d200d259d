package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

type instrumentedClinicRepository struct {
	next    ClinicRepository
	metrics *metrics.Metrics
}

// NewInstrumentedClinicRepository records operation counts and latency around next.
func NewInstrumentedClinicRepository(next ClinicRepository, m *metrics.Metrics) ClinicRepository {
	return &instrumentedClinicRepository{next: next, metrics: m}
}

func (r *instrumentedClinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	start := time.Now()
	err := r.next.Create(ctx, clinic)
	r.observe("clinic_create", start, err)
	return err
}

func (r *instrumentedClinicRepository) List(ctx context.Context, skip, limit int) ([]*model.Clinic, error) {
	start := time.Now()
	clinics, err := r.next.List(ctx, skip, limit)
	r.observe("clinic_list", start, err)
	return clinics, err
}

func (r *instrumentedClinicRepository) observe(operation string, start time.Time, err error) {
	r.metrics.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	r.metrics.DatabaseOperations.WithLabelValues(operation, status(err)).Inc()
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrDuplicateKey):
		return "conflict"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
