package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title" validate:"max=20"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(sampleRequest{Email: "ana@example.com", Rating: 4, Title: "Old bicycle"})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(sampleRequest{Email: "not-an-email", Rating: 9})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Contains(t, fields, "Email")
	assert.Contains(t, fields, "Rating")
	assert.NotContains(t, fields, "Title")
}

func TestValidate_MaxLength(t *testing.T) {
	err := Validate(sampleRequest{
		Email:  "ana@example.com",
		Rating: 3,
		Title:  "this title is far too long for the limit",
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "Title")
}
