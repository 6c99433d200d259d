package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestClinicCreate_ToEntity(t *testing.T) {
	req := &ClinicCreate{
		ClinicID:      "CLN-1",
		ClinicName:    "Lakeside Clinic",
		BusinessName:  "Lakeside Health",
		StreetAddress: "1 Shore Dr",
		City:          "Madison",
		State:         "WI",
		Country:       "US",
		ZipCode:       "53703",
		Latitude:      ptr(43.07),
		Longitude:     ptr(-89.4),
		Services: []ServiceCreate{
			{ServiceID: "S1", ServiceName: "Consult", ServiceCode: "C", AveragePrice: ptr(50.0)},
			{ServiceID: "S2", ServiceName: "Lab", ServiceCode: "L", ServiceDescription: ptr("Bloodwork"), IsActive: ptr(false)},
		},
	}

	clinic := req.ToEntity()

	assert.Empty(t, clinic.ID)
	assert.True(t, clinic.DateCreated.IsZero())
	assert.Equal(t, "CLN-1", clinic.ClinicID)
	assert.Equal(t, "53703", clinic.ZipCode)
	assert.Equal(t, 43.07, *clinic.Latitude)

	require.Len(t, clinic.Services, 2)
	assert.Equal(t, "S1", clinic.Services[0].ServiceID)
	assert.True(t, clinic.Services[0].IsActive, "is_active defaults to true")
	assert.Nil(t, clinic.Services[0].ServiceDescription)
	assert.Equal(t, "S2", clinic.Services[1].ServiceID)
	assert.False(t, clinic.Services[1].IsActive)
	assert.Equal(t, "Bloodwork", *clinic.Services[1].ServiceDescription)
}

func TestClinicCreate_ToEntityCopiesPointers(t *testing.T) {
	req := &ClinicCreate{
		ClinicID: "CLN-2",
		Latitude: ptr(1.0),
		Services: []ServiceCreate{{ServiceID: "S", AveragePrice: ptr(10.0), ServiceDescription: ptr("x")}},
	}

	clinic := req.ToEntity()
	*req.Latitude = 2
	*req.Services[0].AveragePrice = 20
	*req.Services[0].ServiceDescription = "y"

	assert.Equal(t, 1.0, *clinic.Latitude)
	assert.Equal(t, 10.0, *clinic.Services[0].AveragePrice)
	assert.Equal(t, "x", *clinic.Services[0].ServiceDescription)
}

func TestClinicCreate_ToEntityWithoutServices(t *testing.T) {
	clinic := (&ClinicCreate{ClinicID: "CLN-3"}).ToEntity()

	assert.NotNil(t, clinic.Services)
	assert.Empty(t, clinic.Services)
	assert.Nil(t, clinic.Longitude)
}

func TestListParams_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		params    ListParams
		max       int
		wantSkip  int
		wantLimit int
	}{
		{name: "defaults", params: ListParams{}, max: 100, wantSkip: 0, wantLimit: 10},
		{name: "explicit", params: ListParams{Skip: ptr(20), Limit: ptr(5)}, max: 100, wantSkip: 20, wantLimit: 5},
		{name: "capped", params: ListParams{Limit: ptr(500)}, max: 100, wantLimit: 100},
		{name: "no cap", params: ListParams{Limit: ptr(500)}, max: 0, wantLimit: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit := tt.params.Resolve(10, tt.max)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
