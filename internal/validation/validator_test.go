package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/protectedareas/wdpa-server/internal/errors"
	"github.com/protectedareas/wdpa-server/internal/validation"
)

type TestRequest struct {
	Countries []string `json:"countries" validate:"required,min=1,max=3,dive,required"`
	Code      string   `json:"code" validate:"omitempty,iso3"`
	Dimension string   `json:"dimension" validate:"omitempty,dimension"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Countries: []string{"Kenya", "PER"},
		Code:      "KEN",
		Dimension: "iucn_category",
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	//nolint:govet // fieldalignment: Minor memory optimization not worth the complexity in test code
	tests := []struct {
		name      string
		req       TestRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing countries",
			req:       TestRequest{},
			wantField: "countries",
			wantMsg:   "is required",
		},
		{
			name:      "too many countries",
			req:       TestRequest{Countries: []string{"KEN", "PER", "BRA", "USA"}},
			wantField: "countries",
			wantMsg:   "must contain at most 3 items",
		},
		{
			name:      "blank country",
			req:       TestRequest{Countries: []string{"KEN", ""}},
			wantField: "countries[1]",
			wantMsg:   "is required",
		},
		{
			name:      "bad code",
			req:       TestRequest{Countries: []string{"KEN"}, Code: "KE1"},
			wantField: "code",
			wantMsg:   "must be a three-letter ISO3 code",
		},
		{
			name:      "unknown dimension",
			req:       TestRequest{Countries: []string{"KEN"}, Dimension: "designation"},
			wantField: "dimension",
			wantMsg:   "must be a known dimension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("countries", []string{"KEN"}, "min=1,max=2"))

	err := v.Var("countries", []string{"KEN", "PER", "BRA"}, "min=1,max=2")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, "countries must contain at most 2 items", err.Error())
}
