package model

// Service is an offering of a single clinic.
type Service struct {
	ID                 string   `json:"id"`
	ServiceID          string   `json:"service_id"`
	ServiceName        string   `json:"service_name"`
	ServiceCode        string   `json:"service_code"`
	ServiceDescription *string  `json:"service_description"`
	AveragePrice       *float64 `json:"average_price"`
	IsActive           bool     `json:"is_active"`
}
