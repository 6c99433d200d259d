package relational

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
)

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(base BaseRepository) repository.ClinicRepository {
	return &clinicRepository{base}
}

type clinicRow struct {
	ID            int64     `db:"id"`
	ClinicID      string    `db:"clinic_id"`
	ClinicName    string    `db:"clinic_name"`
	BusinessName  string    `db:"business_name"`
	StreetAddress string    `db:"street_address"`
	City          string    `db:"city"`
	State         string    `db:"state"`
	Country       string    `db:"country"`
	ZipCode       string    `db:"zip_code"`
	Latitude      *float64  `db:"latitude"`
	Longitude     *float64  `db:"longitude"`
	DateCreated   time.Time `db:"date_created"`
}

type serviceRow struct {
	ID                 int64    `db:"id"`
	ClinicRef          int64    `db:"clinic_id"`
	ServiceID          string   `db:"service_id"`
	ServiceName        string   `db:"service_name"`
	ServiceCode        string   `db:"service_code"`
	ServiceDescription *string  `db:"service_description"`
	AveragePrice       *float64 `db:"average_price"`
	IsActive           bool     `db:"is_active"`
}

func (row *clinicRow) toModel() *model.Clinic {
	return &model.Clinic{
		ID:            formatID(row.ID),
		ClinicID:      row.ClinicID,
		ClinicName:    row.ClinicName,
		BusinessName:  row.BusinessName,
		StreetAddress: row.StreetAddress,
		City:          row.City,
		State:         row.State,
		Country:       row.Country,
		ZipCode:       row.ZipCode,
		Latitude:      row.Latitude,
		Longitude:     row.Longitude,
		DateCreated:   row.DateCreated.UTC(),
		Services:      []model.Service{},
	}
}

func (row *serviceRow) toModel() model.Service {
	return model.Service{
		ID:                 formatID(row.ID),
		ServiceID:          row.ServiceID,
		ServiceName:        row.ServiceName,
		ServiceCode:        row.ServiceCode,
		ServiceDescription: row.ServiceDescription,
		AveragePrice:       row.AveragePrice,
		IsActive:           row.IsActive,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Create inserts the clinic and its services in one transaction.
func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	clinicQuery := `
		INSERT INTO clinics (
			clinic_id, clinic_name, business_name, street_address,
			city, state, country, zip_code, latitude, longitude, date_created
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING id
	`
	serviceQuery := `
		INSERT INTO services (
			clinic_id, service_id, service_name, service_code,
			service_description, average_price, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id
	`

	created := time.Now().UTC().Truncate(time.Millisecond)
	serviceIDs := make([]string, len(clinic.Services))
	var clinicID int64

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, clinicQuery,
			clinic.ClinicID,
			clinic.ClinicName,
			clinic.BusinessName,
			clinic.StreetAddress,
			clinic.City,
			clinic.State,
			clinic.Country,
			clinic.ZipCode,
			clinic.Latitude,
			clinic.Longitude,
			created,
		).Scan(&clinicID)
		if err != nil {
			return fmt.Errorf("failed to insert clinic: %w", err)
		}

		for i, svc := range clinic.Services {
			var id int64
			err := tx.QueryRowxContext(ctx, serviceQuery,
				clinicID,
				svc.ServiceID,
				svc.ServiceName,
				svc.ServiceCode,
				svc.ServiceDescription,
				svc.AveragePrice,
				svc.IsActive,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to insert service %q: %w", svc.ServiceID, err)
			}
			serviceIDs[i] = formatID(id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", translateError(err))
	}

	clinic.ID = formatID(clinicID)
	clinic.DateCreated = created
	for i := range clinic.Services {
		clinic.Services[i].ID = serviceIDs[i]
	}
	return nil
}

func (r *clinicRepository) List(ctx context.Context, skip, limit int) ([]*model.Clinic, error) {
	query := `
		SELECT
			id, clinic_id, clinic_name, business_name, street_address,
			city, state, country, zip_code, latitude, longitude, date_created
		FROM clinics
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	if limit < 1 {
		return []*model.Clinic{}, nil
	}
	if skip < 0 {
		skip = 0
	}

	var rows []clinicRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", translateError(err))
	}

	clinics := make([]*model.Clinic, 0, len(rows))
	if len(rows) == 0 {
		return clinics, nil
	}

	byID := make(map[int64]*model.Clinic, len(rows))
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		c := rows[i].toModel()
		clinics = append(clinics, c)
		byID[rows[i].ID] = c
		ids = append(ids, rows[i].ID)
	}

	if err := r.attachServices(ctx, ids, byID); err != nil {
		return nil, err
	}

	return clinics, nil
}

func (r *clinicRepository) attachServices(ctx context.Context, ids []int64, byID map[int64]*model.Clinic) error {
	query, args, err := sqlx.In(`
		SELECT
			id, clinic_id, service_id, service_name, service_code,
			service_description, average_price, is_active
		FROM services
		WHERE clinic_id IN (?)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build services query: %w", err)
	}

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to list services: %w", translateError(err))
	}

	for i := range rows {
		if c, ok := byID[rows[i].ClinicRef]; ok {
			c.Services = append(c.Services, rows[i].toModel())
		}
	}
	return nil
}
