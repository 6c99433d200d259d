package repository

import (
	"context"

	"github.com/jwalitptl/clinic-registry/internal/model"
)

// All repository interfaces in one file
type (
	// ClinicRepository persists clinics together with their services
	ClinicRepository interface {
		// Create assigns storage ids and date_created, then writes the whole graph.
		Create(ctx context.Context, clinic *model.Clinic) error
		// List returns at most limit clinics after skipping skip, oldest first.
		List(ctx context.Context, skip, limit int) ([]*model.Clinic, error)
	}

	// Store is a configured backend and its lifecycle
	Store interface {
		Clinics() ClinicRepository
		// Init creates constraints and indexes; safe to run repeatedly.
		Init(ctx context.Context) error
		Ping(ctx context.Context) error
		Close(ctx context.Context) error
	}
)
