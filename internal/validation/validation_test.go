package validation

import (
	"testing"

	"github.com/google/uuid"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLocation struct {
	Label string `json:"label" binding:"required,notblank,min=2"`
}

type sampleRequest struct {
	Name        string           `json:"name" binding:"required,notblank,min=3,max=120"`
	Email       string           `json:"owner_email" binding:"required,email"`
	Notes       *string          `json:"notes" binding:"omitempty,notblank"`
	LocationIDs []string         `json:"location_ids" binding:"omitempty,uuid_list"`
	Locations   []sampleLocation `json:"locations" binding:"required,min=1,dive"`
	Internal    string           `json:"-"`
}

func TestStructAcceptsValidInput(t *testing.T) {
	notes := "ok"
	err := Struct(&sampleRequest{
		Name:        "Blue Bottle",
		Email:       "owner@example.com",
		Notes:       &notes,
		LocationIDs: []string{uuid.NewString()},
		Locations:   []sampleLocation{{Label: "HQ"}},
	})
	assert.NoError(t, err)
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	blank := "   "
	err := Struct(&sampleRequest{
		Name:        "  ",
		Email:       "not-an-email",
		Notes:       &blank,
		LocationIDs: []string{"nope"},
		Locations:   []sampleLocation{{Label: ""}},
	})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, apperrors.ValidationInvalidInput, appErr.Code)

	assert.Contains(t, appErr.Fields, "name")
	assert.Equal(t, "must be a valid email", appErr.Fields["owner_email"])
	assert.Equal(t, "must not be blank", appErr.Fields["notes"])
	assert.Equal(t, "must contain only valid uuids", appErr.Fields["location_ids"])
	assert.Equal(t, "is required", appErr.Fields["locations[0].label"])
}

func TestStructRequiresAtLeastOneItem(t *testing.T) {
	err := Struct(&sampleRequest{
		Name:  "Blue Bottle",
		Email: "owner@example.com",
	})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "locations")
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(assert.AnError))

	appErr := FromBindError(assert.AnError)
	assert.Equal(t, "malformed request body", appErr.Fields["body"])
	assert.ErrorIs(t, appErr, assert.AnError)
}

func TestRegisterGinValidators(t *testing.T) {
	require.NoError(t, RegisterGinValidators())
}
