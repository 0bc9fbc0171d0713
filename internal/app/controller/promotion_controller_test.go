package controller

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promotionPayload() map[string]interface{} {
	start := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	return map[string]interface{}{
		"title":          "Summer tasting week",
		"promotion_type": "event",
		"starts_at":      start.Format(time.RFC3339),
		"ends_at":        start.Add(7 * 24 * time.Hour).Format(time.RFC3339),
	}
}

func createPromotion(t *testing.T, env *controllerTestEnv, registrationID uuid.UUID, token string) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/v1/registrations/"+registrationID.String()+"/promotions", token, promotionPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["promotion"].(map[string]interface{})["id"].(string)
}

func TestPromotionController_Create_ScheduleValidation(t *testing.T) {
	env := setupControllerTest(t, nil)
	ownerID := uuid.New()
	registration := env.seedRegistration(t, ownerID, 1)

	body := promotionPayload()
	body["ends_at"] = body["starts_at"]

	w := env.do(t, http.MethodPost, "/api/v1/registrations/"+registration.ID.String()+"/promotions", tokenFor(t, ownerID, middleware.RoleUser), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.PromotionInvalidSchedule, decodeBody(t, w)["error"])
}

func TestPromotionController_Share(t *testing.T) {
	env := setupControllerTest(t, nil)
	ownerID := uuid.New()
	token := tokenFor(t, ownerID, middleware.RoleUser)
	registration := env.seedRegistration(t, ownerID, 1)
	promotionID := createPromotion(t, env, registration.ID, token)
	sharePath := "/api/v1/registrations/" + registration.ID.String() + "/promotions/" + promotionID + "/share"

	w := env.do(t, http.MethodPost, sharePath, token, nil)

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, promotionID, decodeBody(t, w)["promotion_id"])
	require.Len(t, env.publisher.published, 1)
	assert.Equal(t, "Blue Bottle Coffee", env.publisher.published[0].BusinessName)
}

func TestPromotionController_Share_UpstreamFailure(t *testing.T) {
	env := setupControllerTest(t, nil)
	ownerID := uuid.New()
	token := tokenFor(t, ownerID, middleware.RoleUser)
	registration := env.seedRegistration(t, ownerID, 1)
	promotionID := createPromotion(t, env, registration.ID, token)
	env.publisher.err = errors.New("stories: unexpected status 503")

	w := env.do(t, http.MethodPost, "/api/v1/registrations/"+registration.ID.String()+"/promotions/"+promotionID+"/share", token, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, apperrors.PromotionShareFailed, decodeBody(t, w)["error"])
}

func TestPromotionController_Share_UnknownPromotion(t *testing.T) {
	env := setupControllerTest(t, nil)
	ownerID := uuid.New()
	registration := env.seedRegistration(t, ownerID, 1)

	w := env.do(t, http.MethodPost, "/api/v1/registrations/"+registration.ID.String()+"/promotions/"+uuid.NewString()+"/share", tokenFor(t, ownerID, middleware.RoleUser), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.publisher.published)
}

func TestPromotionController_ListLocationPromotions(t *testing.T) {
	env := setupControllerTest(t, nil)
	ownerID := uuid.New()
	token := tokenFor(t, ownerID, middleware.RoleUser)
	registration := env.seedRegistration(t, ownerID, 2)
	promotionID := createPromotion(t, env, registration.ID, token)

	w := env.do(t, http.MethodGet, "/api/v1/locations/"+registration.Locations[1].ID.String()+"/promotions", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.Equal(t, float64(1), body["count"])
	assert.Equal(t, promotionID, body["promotions"].([]interface{})[0].(map[string]interface{})["id"])

	w = env.do(t, http.MethodGet, "/api/v1/locations/"+uuid.NewString()+"/promotions", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.LocationNotFound, decodeBody(t, w)["error"])
}
