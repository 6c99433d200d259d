package model

import (
	"time"
)

// Clinic is a registered clinic together with the services it offers.
// ID is assigned by the store; ClinicID is the caller's business key.
type Clinic struct {
	ID            string    `json:"id"`
	ClinicID      string    `json:"clinic_id"`
	ClinicName    string    `json:"clinic_name"`
	BusinessName  string    `json:"business_name"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	ZipCode       string    `json:"zip_code"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	DateCreated   time.Time `json:"date_created"`
	Services      []Service `json:"services"`
}
