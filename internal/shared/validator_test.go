package shared

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrictEmail(t *testing.T) {
	cases := map[string]bool{
		"jane.doe@example.com":   true,
		"john_smith1@company.io": true,
		"u@test.com":             true,
		"jane..doe@example.com":  false,
		"jane.-doe@example.com":  false,
		"jane.@example.com":      false,
		"jane@ex.com":            false,
		"jane@example":           false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsStrictEmail(in), in)
	}
}

func TestIsCountryName(t *testing.T) {
	assert.True(t, IsCountryName("Pakistan"))
	assert.True(t, IsCountryName("germany"))
	assert.True(t, IsCountryName(" United States "))
	assert.False(t, IsCountryName("Atlantis"))
	assert.False(t, IsCountryName(""))
}

type sampleRequest struct {
	Name    string `json:"name" validate:"required,personname"`
	Email   string `json:"email" validate:"required,strictemail"`
	CNIC    string `json:"cnic" validate:"omitempty,cnic"`
	Country string `json:"country" validate:"required,country"`
}

func TestValidatorStruct(t *testing.T) {
	v := NewValidator()

	ok := sampleRequest{Name: "Jane Doe", Email: "jane.doe@example.com", CNIC: "12345-1234567-1", Country: "Pakistan"}
	require.NoError(t, v.Struct(ok))

	bad := sampleRequest{Name: "J", Email: "nope", CNIC: "123", Country: "Nowhere"}
	err := v.Struct(bad)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "cnic")
	assert.Contains(t, verr.Error(), "country: must be a valid country name")
}

func TestParsePageRequest(t *testing.T) {
	p := ParsePageRequest(url.Values{"page": {"3"}, "limit": {"500"}})
	assert.Equal(t, PageRequest{Page: 3, Limit: 100}, p)
	assert.Equal(t, 200, p.Offset())

	def := ParsePageRequest(url.Values{"page": {"x"}})
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, def)

	meta := NewPagination(2, 10, 21)
	assert.Equal(t, 3, meta.TotalPages)
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Secret#123"))
	assert.False(t, IsStrongPassword("secret#123"))
	assert.False(t, IsStrongPassword("Secret123"))
	assert.False(t, IsStrongPassword("Sh#1"))
	assert.False(t, IsStrongPassword("Secret #123"))
}
