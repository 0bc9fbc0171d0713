package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promotionInput(promotionType model.PromotionType) PromotionInput {
	start := time.Now().Add(-time.Hour)
	input := PromotionInput{
		Title:         "Spring celebration",
		PromotionType: promotionType,
		StartsAt:      start,
		EndsAt:        start.Add(7 * 24 * time.Hour),
	}
	if promotionType == model.PromotionTypeContest {
		input.Prize = strPtr("Free coffee for a year")
	}
	return input
}

func TestPromotionService_CreateBusinessScope(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	actor := uuid.New()
	input := promotionInput(model.PromotionTypeDiscount)
	input.DiscountPercent = intPtr(25)
	input.ActorID = &actor
	input.LocationIDs = []string{registration.Locations[0].ID.String()}

	promotion, err := svc.promotions.Create(registration.ID, input)
	require.NoError(t, err)

	assert.Equal(t, model.PromotionScopeBusiness, promotion.Scope)
	assert.Equal(t, model.PromotionStatusActive, promotion.Status)
	assert.Empty(t, promotion.LocationIDs)
	require.NotNil(t, promotion.CreatedBy)
	assert.Equal(t, actor, *promotion.CreatedBy)
	assert.Equal(t, int64(0), countRows(t, svc.db, "business_promotion_locations", ""))
}

func TestPromotionService_CreateFutureIsScheduled(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	input := promotionInput(model.PromotionTypeEvent)
	input.StartsAt = time.Now().Add(48 * time.Hour)
	input.EndsAt = input.StartsAt.Add(time.Hour)

	promotion, err := svc.promotions.Create(registration.ID, input)
	require.NoError(t, err)
	assert.Equal(t, model.PromotionStatusScheduled, promotion.Status)
}

func TestPromotionService_CreateLocationScopeDedupesIDs(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 2)
	first := registration.Locations[0].ID
	second := registration.Locations[1].ID

	input := promotionInput(model.PromotionTypeChallenge)
	input.Scope = model.PromotionScopeLocation
	input.LocationIDs = []string{first.String(), second.String(), first.String()}

	promotion, err := svc.promotions.Create(registration.ID, input)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, promotion.LocationIDs)
	assert.Equal(t, int64(2), countRows(t, svc.db, "business_promotion_locations", "promotion_id = ?", promotion.ID))

	fetched, err := svc.promotions.Get(registration.ID, promotion.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, fetched.LocationIDs)
}

func TestPromotionService_BusinessRuleFailures(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	tests := []struct {
		name  string
		input func() PromotionInput
		want  *apperrors.Error
		field string
	}{
		{
			name: "discount above 100",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeDiscount)
				in.DiscountPercent = intPtr(150)
				return in
			},
			want:  ErrPromotionDiscount,
			field: "discount_percent",
		},
		{
			name: "negative discount",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeDiscount)
				in.DiscountPercent = intPtr(-1)
				return in
			},
			want:  ErrPromotionDiscount,
			field: "discount_percent",
		},
		{
			name: "discount on event",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeEvent)
				in.DiscountPercent = intPtr(10)
				return in
			},
			want:  ErrPromotionDiscount,
			field: "discount_percent",
		},
		{
			name: "contest without prize",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeContest)
				in.Prize = nil
				return in
			},
			want:  ErrPromotionPrize,
			field: "prize",
		},
		{
			name: "contest with blank prize",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeContest)
				in.Prize = strPtr("  ")
				return in
			},
			want:  ErrPromotionPrize,
			field: "prize",
		},
		{
			name: "ends before starts",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeEvent)
				in.EndsAt = in.StartsAt.Add(-time.Minute)
				return in
			},
			want:  ErrPromotionSchedule,
			field: "ends_at",
		},
		{
			name: "ends equal to starts",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeEvent)
				in.EndsAt = in.StartsAt
				return in
			},
			want:  ErrPromotionSchedule,
			field: "ends_at",
		},
		{
			name: "location scope without ids",
			input: func() PromotionInput {
				in := promotionInput(model.PromotionTypeEvent)
				in.Scope = model.PromotionScopeLocation
				return in
			},
			want:  ErrPromotionLocationRequired,
			field: "location_ids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.promotions.Create(registration.ID, tt.input())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}

	assert.Equal(t, int64(0), countRows(t, svc.db, "business_promotions", ""))
}

func TestPromotionService_ForeignLocationRollsBack(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)
	other := submitRegistration(t, svc, 1)

	input := promotionInput(model.PromotionTypeEvent)
	input.Scope = model.PromotionScopeLocation
	input.LocationIDs = []string{registration.Locations[0].ID.String(), other.Locations[0].ID.String()}

	_, err := svc.promotions.Create(registration.ID, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationNotFound)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus())

	assert.Equal(t, int64(0), countRows(t, svc.db, "business_promotions", ""))
	assert.Equal(t, int64(0), countRows(t, svc.db, "business_promotion_locations", ""))
}

func TestPromotionService_UpdateForeignLocationKeepsAssociations(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 2)
	other := submitRegistration(t, svc, 1)
	own := registration.Locations[0].ID

	input := promotionInput(model.PromotionTypeEvent)
	input.Scope = model.PromotionScopeLocation
	input.LocationIDs = []string{own.String()}
	promotion, err := svc.promotions.Create(registration.ID, input)
	require.NoError(t, err)

	update := input
	update.Title = "Changed title"
	update.LocationIDs = []string{registration.Locations[1].ID.String(), other.Locations[0].ID.String()}
	_, err = svc.promotions.Update(registration.ID, promotion.ID, update)
	assert.ErrorIs(t, err, ErrLocationNotFound)

	fetched, err := svc.promotions.Get(registration.ID, promotion.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring celebration", fetched.Title)
	assert.Equal(t, []uuid.UUID{own}, fetched.LocationIDs)
}

func TestPromotionService_UpdateReplacesLocationsAndKeepsStatus(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 2)
	first := registration.Locations[0].ID
	second := registration.Locations[1].ID

	input := promotionInput(model.PromotionTypeEvent)
	input.StartsAt = time.Now().Add(24 * time.Hour)
	input.EndsAt = input.StartsAt.Add(24 * time.Hour)
	input.Scope = model.PromotionScopeLocation
	input.LocationIDs = []string{first.String()}
	promotion, err := svc.promotions.Create(registration.ID, input)
	require.NoError(t, err)
	require.Equal(t, model.PromotionStatusScheduled, promotion.Status)

	// start moves into the past; status is not re-derived
	update := input
	update.StartsAt = time.Now().Add(-24 * time.Hour)
	update.EndsAt = time.Now().Add(24 * time.Hour)
	update.LocationIDs = []string{second.String()}
	updated, err := svc.promotions.Update(registration.ID, promotion.ID, update)
	require.NoError(t, err)
	assert.Equal(t, model.PromotionStatusScheduled, updated.Status)
	assert.Equal(t, []uuid.UUID{second}, updated.LocationIDs)

	// explicit status wins
	cancelled := model.PromotionStatusCancelled
	update.Status = &cancelled
	updated, err = svc.promotions.Update(registration.ID, promotion.ID, update)
	require.NoError(t, err)
	assert.Equal(t, model.PromotionStatusCancelled, updated.Status)

	// business scope drops every association
	business := update
	business.Scope = model.PromotionScopeBusiness
	business.Status = nil
	updated, err = svc.promotions.Update(registration.ID, promotion.ID, business)
	require.NoError(t, err)
	assert.Equal(t, model.PromotionScopeBusiness, updated.Scope)
	assert.Equal(t, model.PromotionStatusCancelled, updated.Status)
	assert.Empty(t, updated.LocationIDs)
	assert.Equal(t, int64(0), countRows(t, svc.db, "business_promotion_locations", "promotion_id = ?", promotion.ID))
}

func TestPromotionService_ListGetDelete(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	early := promotionInput(model.PromotionTypeEvent)
	early.Title = "Early bird"
	late := promotionInput(model.PromotionTypeEvent)
	late.Title = "Late night"
	late.StartsAt = early.StartsAt.Add(2 * time.Hour)
	late.EndsAt = late.StartsAt.Add(time.Hour)

	earlyPromo, err := svc.promotions.Create(registration.ID, early)
	require.NoError(t, err)
	latePromo, err := svc.promotions.Create(registration.ID, late)
	require.NoError(t, err)

	listed, err := svc.promotions.List(registration.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, latePromo.ID, listed[0].ID)
	assert.Equal(t, earlyPromo.ID, listed[1].ID)

	_, err = svc.promotions.List(uuid.New())
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	require.NoError(t, svc.promotions.Delete(registration.ID, earlyPromo.ID))
	_, err = svc.promotions.Get(registration.ID, earlyPromo.ID)
	assert.ErrorIs(t, err, ErrPromotionNotFound)
	assert.ErrorIs(t, svc.promotions.Delete(registration.ID, earlyPromo.ID), ErrPromotionNotFound)
}

func TestPromotionService_Share(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 1)

	input := promotionInput(model.PromotionTypeEvent)
	input.Scope = model.PromotionScopeLocation
	input.LocationIDs = []string{registration.Locations[0].ID.String()}
	promotion, err := svc.promotions.Create(registration.ID, input)
	require.NoError(t, err)

	require.NoError(t, svc.promotions.Share(context.Background(), registration.ID, promotion.ID))
	require.Len(t, svc.publisher.stories, 1)
	story := svc.publisher.stories[0]
	assert.Equal(t, promotion.ID.String(), story.PromotionID)
	assert.Equal(t, registration.Name, story.BusinessName)
	assert.Equal(t, []string{registration.Locations[0].ID.String()}, story.LocationIDs)

	svc.publisher.err = errors.New("connection refused")
	err = svc.promotions.Share(context.Background(), registration.ID, promotion.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPromotionShareFailed)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.HTTPStatus())

	// sharing never changes the promotion
	fetched, err := svc.promotions.Get(registration.ID, promotion.ID)
	require.NoError(t, err)
	assert.Equal(t, promotion.Status, fetched.Status)

	err = svc.promotions.Share(context.Background(), registration.ID, uuid.New())
	assert.ErrorIs(t, err, ErrPromotionNotFound)
}

func TestPromotionService_ListForLocation(t *testing.T) {
	svc := setupServiceTest(t)
	registration := submitRegistration(t, svc, 2)
	first := registration.Locations[0].ID
	second := registration.Locations[1].ID

	wide, err := svc.promotions.Create(registration.ID, promotionInput(model.PromotionTypeEvent))
	require.NoError(t, err)

	bound := promotionInput(model.PromotionTypeChallenge)
	bound.Scope = model.PromotionScopeLocation
	bound.LocationIDs = []string{first.String()}
	local, err := svc.promotions.Create(registration.ID, bound)
	require.NoError(t, err)

	// another registration's business wide promotion never leaks in
	other := submitRegistration(t, svc, 1)
	_, err = svc.promotions.Create(other.ID, promotionInput(model.PromotionTypeEvent))
	require.NoError(t, err)

	atFirst, err := svc.promotions.ListForLocation(first)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(atFirst))
	for _, promotion := range atFirst {
		ids = append(ids, promotion.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{wide.ID, local.ID}, ids)
	for _, promotion := range atFirst {
		if promotion.ID == local.ID {
			assert.Equal(t, []uuid.UUID{first}, promotion.LocationIDs)
		}
	}

	atSecond, err := svc.promotions.ListForLocation(second)
	require.NoError(t, err)
	require.Len(t, atSecond, 1)
	assert.Equal(t, wide.ID, atSecond[0].ID)

	_, err = svc.promotions.ListForLocation(uuid.New())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}
