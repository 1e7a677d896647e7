package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

type createItemBody struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Unit string `json:"unit" validate:"omitempty,item_unit"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/items", strings.NewReader(`{"name":"Milk","unit":"liter"}`))

	var body createItemBody
	require.NoError(t, DecodeJSONBody(req, &body))
	require.Equal(t, "Milk", body.Name)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/items", strings.NewReader(`{"name":"Milk","bogus":true}`))

	var body createItemBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyValidationDetailsUseJSONNames(t *testing.T) {
	req := httptest.NewRequest("POST", "/items", strings.NewReader(`{"unit":"barrel"}`))

	var body createItemBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", details["name"])
	require.Equal(t, "must be a supported unit", details["unit"])
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest("GET", "/items?limit=500", nil)

	_, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.Error(t, err)

	req = httptest.NewRequest("GET", "/items", nil)
	v, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 25, v)
}

func TestParseQueryDateFormats(t *testing.T) {
	req := httptest.NewRequest("GET", "/x?from=2026-01-15", nil)
	d, err := ParseQueryDate(req, "from")
	require.NoError(t, err)
	require.Equal(t, 2026, d.Year())

	req = httptest.NewRequest("GET", "/x?from=2026-01-15T10:30:00Z", nil)
	d, err = ParseQueryDate(req, "from")
	require.NoError(t, err)
	require.Equal(t, 10, d.Hour())

	req = httptest.NewRequest("GET", "/x?from=yesterday", nil)
	_, err = ParseQueryDate(req, "from")
	require.Error(t, err)
}
