package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Code  string   `json:"code" binding:"required"`
	Price *float64 `json:"price" binding:"omitnil,gte=0"`
}

type payload struct {
	Name  string `json:"name" binding:"required"`
	Items []item `json:"items" binding:"dive"`
	Page  *int   `form:"page" binding:"omitnil,gte=1"`
}

func ptr[T any](v T) *T { return &v }

// newBindingValidator mirrors gin's default engine: binding tags, json names.
func newBindingValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	RegisterJSONTagNames(v)
	return v
}

func TestDescribe_ValidationErrors(t *testing.T) {
	v := newBindingValidator()

	err := v.Struct(payload{
		Items: []item{{Code: "A"}, {Price: ptr(-1.0)}},
		Page:  ptr(0),
	})
	require.Error(t, err)

	got := Describe(err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Message: "field is required"},
		{Field: "items[1].code", Message: "field is required"},
		{Field: "items[1].price", Message: "value is too small (gte=0)"},
		{Field: "page", Message: "value is too small (gte=1)"},
	}, got)
}

func TestDescribe_Valid(t *testing.T) {
	v := newBindingValidator()
	assert.NoError(t, v.Struct(payload{Name: "ok", Items: []item{{Code: "A", Price: ptr(0.0)}}}))
}

func TestDescribe_TypeError(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"name": 12}`), &p)
	require.Error(t, err)

	got := Describe(err)
	require.Len(t, got, 1)
	assert.Equal(t, "name", got[0].Field)
	assert.Equal(t, "must be of type string", got[0].Message)
}

func TestDescribe_Other(t *testing.T) {
	assert.Nil(t, Describe(errors.New("unexpected EOF")))
}
