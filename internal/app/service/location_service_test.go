package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryCount(t *testing.T, svc *testServices, registrationID uuid.UUID) int64 {
	t.Helper()
	return countRows(t, svc.db, "business_locations", "registration_id = ? AND is_primary = ?", registrationID, true)
}

func TestLocationService_CreateNonPrimary(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	location, err := svc.locations.Create(registration.ID, locationInput("Annex"))
	require.NoError(t, err)
	assert.False(t, location.IsPrimary)
	assert.Equal(t, registration.ID, location.RegistrationID)
	assert.Equal(t, int64(1), primaryCount(t, svc, registration.ID))
}

func TestLocationService_CreatePrimaryDemotesCurrent(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)
	original := registration.Locations[0]

	input := locationInput("Flagship")
	input.IsPrimary = boolPtr(true)
	location, err := svc.locations.Create(registration.ID, input)
	require.NoError(t, err)
	assert.True(t, location.IsPrimary)

	reloaded, err := svc.locations.Get(registration.ID, original.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPrimary)
	assert.Equal(t, int64(1), primaryCount(t, svc, registration.ID))

	listed, err := svc.locations.List(registration.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, location.ID, listed[0].ID)
}

func TestLocationService_CreateUnknownRegistration(t *testing.T) {
	svc := setupServiceTest(t)

	_, err := svc.locations.Create(uuid.New(), locationInput("Ghost"))
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
	assert.Equal(t, int64(0), countRows(t, svc.db, "business_locations", ""))
}

func TestLocationService_CreateValidation(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	_, err := svc.locations.Create(registration.ID, LocationInput{Label: "A", FormattedAddress: "x"})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "label")
	assert.Contains(t, appErr.Fields, "formatted_address")
}

func TestLocationService_GetScopedToRegistration(t *testing.T) {
	svc := setupServiceTest(t)
	first := submitRegistration(t, svc, 1)
	second := submitRegistration(t, svc, 1)

	_, err := svc.locations.Get(second.ID, first.Locations[0].ID)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestLocationService_Update(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 2)
	primary := registration.Locations[0]
	secondary := registration.Locations[1]

	input := locationInput("Renamed")
	input.City = strPtr("Oakland")
	input.Metadata = map[string]interface{}{"floor": "2"}
	updated, err := svc.locations.Update(registration.ID, secondary.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Label)
	require.NotNil(t, updated.City)
	assert.Equal(t, "Oakland", *updated.City)
	assert.False(t, updated.IsPrimary)

	// false never demotes the current primary
	demote := locationInput("Still primary")
	demote.IsPrimary = boolPtr(false)
	kept, err := svc.locations.Update(registration.ID, primary.ID, demote)
	require.NoError(t, err)
	assert.True(t, kept.IsPrimary)

	promote := locationInput("Now primary")
	promote.IsPrimary = boolPtr(true)
	promoted, err := svc.locations.Update(registration.ID, secondary.ID, promote)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)
	assert.Equal(t, int64(1), primaryCount(t, svc, registration.ID))

	reloaded, err := svc.locations.Get(registration.ID, secondary.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", reloaded.Metadata["floor"])
}

func TestLocationService_SetPrimary(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 3)
	target := registration.Locations[2]

	location, err := svc.locations.SetPrimary(registration.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, location.IsPrimary)
	assert.Equal(t, int64(1), primaryCount(t, svc, registration.ID))

	// setting the same primary again is harmless
	_, err = svc.locations.SetPrimary(registration.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), primaryCount(t, svc, registration.ID))

	_, err = svc.locations.SetPrimary(registration.ID, uuid.New())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestLocationService_ConcurrentSetPrimaryKeepsSinglePrimary(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 4)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		target := registration.Locations[i%len(registration.Locations)]
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := svc.locations.SetPrimary(registration.ID, id); err != nil {
				errs <- err
			}
		}(target.ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("set primary failed: %v", err)
	}
	assert.Equal(t, int64(1), primaryCount(t, svc, registration.ID))
}

func TestLocationService_DeleteLastLocationFails(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	err := svc.locations.Delete(registration.ID, registration.Locations[0].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLastLocation)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus())

	locations, err := svc.locations.List(registration.ID)
	require.NoError(t, err)
	assert.Len(t, locations, 1)
}

func TestLocationService_DeletePrimaryPromotesOldest(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 3)
	primary := registration.Locations[0]
	oldestRemaining := registration.Locations[1]

	require.NoError(t, svc.locations.Delete(registration.ID, primary.ID))

	locations, err := svc.locations.List(registration.ID)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, oldestRemaining.ID, locations[0].ID)
	assert.True(t, locations[0].IsPrimary)
	assert.Equal(t, int64(1), primaryCount(t, svc, registration.ID))

	// keep deleting until one is left
	require.NoError(t, svc.locations.Delete(registration.ID, locations[0].ID))
	assert.ErrorIs(t, svc.locations.Delete(registration.ID, locations[1].ID), ErrLastLocation)

	remaining, err := svc.locations.List(registration.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].IsPrimary)
}

func TestLocationService_DeleteUnlinksPromotions(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 2)
	target := registration.Locations[1]

	input := promotionInput(model.PromotionTypeEvent)
	input.Scope = model.PromotionScopeLocation
	input.LocationIDs = []string{target.ID.String()}
	_, err := svc.promotions.Create(registration.ID, input)
	require.NoError(t, err)

	require.NoError(t, svc.locations.Delete(registration.ID, target.ID))
	assert.Equal(t, int64(0), countRows(t, svc.db, "business_promotion_locations", "location_id = ?", target.ID))
}

func TestLocationService_NewLocationInheritsBusiness(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)
	approved, err := svc.reviews.SubmitReview(registration.ID, reviewInput(model.ReviewActionApprove))
	require.NoError(t, err)

	location, err := svc.locations.Create(registration.ID, locationInput("Second"))
	require.NoError(t, err)
	require.NotNil(t, location.BusinessID)
	assert.Equal(t, *approved.BusinessID, *location.BusinessID)
}
