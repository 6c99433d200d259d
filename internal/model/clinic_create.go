package model

// ClinicCreate is the inbound payload for registering a clinic.
type ClinicCreate struct {
	ClinicID      string          `json:"clinic_id" binding:"required"`
	ClinicName    string          `json:"clinic_name" binding:"required"`
	BusinessName  string          `json:"business_name" binding:"required"`
	StreetAddress string          `json:"street_address" binding:"required"`
	City          string          `json:"city" binding:"required"`
	State         string          `json:"state" binding:"required"`
	Country       string          `json:"country" binding:"required"`
	ZipCode       string          `json:"zip_code" binding:"required"`
	Latitude      *float64        `json:"latitude" binding:"omitnil,gte=-90,lte=90"`
	Longitude     *float64        `json:"longitude" binding:"omitnil,gte=-180,lte=180"`
	Services      []ServiceCreate `json:"services" binding:"dive"`
}

// ServiceCreate is a service nested in a ClinicCreate payload.
type ServiceCreate struct {
	ServiceID          string   `json:"service_id" binding:"required"`
	ServiceName        string   `json:"service_name" binding:"required"`
	ServiceCode        string   `json:"service_code" binding:"required"`
	ServiceDescription *string  `json:"service_description"`
	AveragePrice       *float64 `json:"average_price" binding:"omitnil,gte=0"`
	IsActive           *bool    `json:"is_active"`
}

// ToEntity builds the clinic graph to persist. Services keep request order.
// ID and DateCreated are left for the store to assign.
func (r *ClinicCreate) ToEntity() *Clinic {
	clinic := &Clinic{
		ClinicID:      r.ClinicID,
		ClinicName:    r.ClinicName,
		BusinessName:  r.BusinessName,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		Country:       r.Country,
		ZipCode:       r.ZipCode,
		Latitude:      copyFloat(r.Latitude),
		Longitude:     copyFloat(r.Longitude),
		Services:      make([]Service, 0, len(r.Services)),
	}

	for i := range r.Services {
		clinic.Services = append(clinic.Services, r.Services[i].ToEntity())
	}

	return clinic
}

// ToEntity copies the request; is_active defaults to true.
func (r *ServiceCreate) ToEntity() Service {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	svc := Service{
		ServiceID:    r.ServiceID,
		ServiceName:  r.ServiceName,
		ServiceCode:  r.ServiceCode,
		AveragePrice: copyFloat(r.AveragePrice),
		IsActive:     active,
	}
	if r.ServiceDescription != nil {
		desc := *r.ServiceDescription
		svc.ServiceDescription = &desc
	}

	return svc
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
