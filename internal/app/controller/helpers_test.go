package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	"github.com/ikkim/bizreview-backend/internal/db"
	"github.com/ikkim/bizreview-backend/internal/middleware"
	"github.com/ikkim/bizreview-backend/internal/storage"
	"github.com/ikkim/bizreview-backend/internal/validation"
	"github.com/ikkim/bizreview-backend/pkg/stories"
	"github.com/ikkim/bizreview-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "controller-test-secret"

type controllerTestEnv struct {
	db            *gorm.DB
	router        *gin.Engine
	registrations service.RegistrationService
	reviews       service.ReviewService
	publisher     *stubPublisher
}

type stubPublisher struct {
	published []stories.PromotionStory
	err       error
}

func (p *stubPublisher) PublishPromotion(ctx context.Context, story stories.PromotionStory) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, story)
	return nil
}

type stubPresigner struct{}

func (stubPresigner) PresignDocumentUpload(ctx context.Context, filename, contentType string) (*storage.PresignedURLResponse, error) {
	if err := storage.ValidateContentType(contentType, storage.DocumentContentTypes); err != nil {
		return nil, err
	}
	return &storage.PresignedURLResponse{
		UploadURL: "https://uploads.example.com/" + filename,
		FileURL:   "https://cdn.example.com/" + filename,
		Key:       storage.DocumentsFolder + "/" + filename,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func setupControllerTest(t *testing.T, presigner DocumentPresigner) *controllerTestEnv {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterGinValidators())

	registrationRepo := repository.NewRegistrationRepository(testDB)
	eventRepo := repository.NewReviewEventRepository(testDB)
	locationRepo := repository.NewLocationRepository(testDB)
	promotionRepo := repository.NewPromotionRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	companyRepo := repository.NewCompanyRepository(testDB)
	unitRepo := repository.NewUnitRepository(testDB)
	adminRepo := repository.NewLocationAdminRepository(testDB)

	publisher := &stubPublisher{}
	registrationService := service.NewRegistrationService(registrationRepo, locationRepo, testDB, nil)
	reviewService := service.NewReviewService(registrationRepo, eventRepo, locationRepo, unitRepo, businessRepo, testDB, nil, nil)
	locationService := service.NewLocationService(registrationRepo, locationRepo, testDB)
	promotionService := service.NewPromotionService(registrationRepo, locationRepo, promotionRepo, publisher, testDB)
	companyService := service.NewCompanyService(companyRepo, unitRepo, registrationRepo, locationRepo, promotionRepo, testDB)
	adminService := service.NewLocationAdminService(locationRepo, adminRepo, testDB)
	businessService := service.NewBusinessService(businessRepo)

	registrationCtrl := NewRegistrationController(registrationService)
	reviewCtrl := NewReviewController(reviewService)
	locationCtrl := NewLocationController(locationService)
	promotionCtrl := NewPromotionController(promotionService)
	uploadCtrl := NewUploadController(presigner)
	companyCtrl := NewCompanyController(companyService)
	adminCtrl := NewLocationAdminController(adminService)
	businessCtrl := NewBusinessController(businessService)

	auth := middleware.NewAuthMiddleware(testJWTSecret)
	router := gin.New()
	v1 := router.Group("/api/v1", auth.Authenticate())
	{
		v1.POST("/registrations", registrationCtrl.SubmitRegistration)
		v1.GET("/registrations/:id", registrationCtrl.GetRegistration)
		v1.GET("/users/:user_id/registrations", registrationCtrl.ListForUser)
		v1.GET("/users/:user_id/registrations/latest", registrationCtrl.GetLatestForUser)

		v1.GET("/registrations/:id/locations", locationCtrl.ListLocations)
		v1.DELETE("/registrations/:id/locations/:lid", locationCtrl.DeleteLocation)

		v1.POST("/registrations/:id/promotions", promotionCtrl.CreatePromotion)
		v1.POST("/registrations/:id/promotions/:pid/share", promotionCtrl.SharePromotion)

		v1.GET("/locations/:lid/promotions", promotionCtrl.ListLocationPromotions)
		v1.POST("/locations/:lid/admins", adminCtrl.AddAdmin)
		v1.GET("/locations/:lid/admins", adminCtrl.ListAdmins)
		v1.DELETE("/locations/:lid/admins/:uid", adminCtrl.RemoveAdmin)

		v1.POST("/companies", companyCtrl.CreateCompany)
		v1.GET("/companies/:cid", companyCtrl.GetCompany)
		v1.POST("/companies/:cid/units", companyCtrl.CreateUnit)
		v1.GET("/units/:uid", companyCtrl.GetUnit)
		v1.GET("/users/:user_id/companies", companyCtrl.ListForOwner)

		v1.GET("/businesses/:bid", businessCtrl.GetBusiness)
		v1.GET("/users/:user_id/businesses", businessCtrl.ListForOwner)

		v1.POST("/uploads/documents/presigned-url", uploadCtrl.GenerateDocumentURL)

		reviews := v1.Group("/reviews", auth.RequireRole(middleware.RoleAdmin))
		reviews.GET("/pending", reviewCtrl.ListPending)
		reviews.GET("/stats", reviewCtrl.GetStats)
		reviews.GET("/export", reviewCtrl.Export)
		reviews.GET("/:id", reviewCtrl.GetReview)
		reviews.GET("/:id/events", reviewCtrl.ListEvents)
		reviews.POST("/:id/action", reviewCtrl.SubmitAction)
	}

	return &controllerTestEnv{
		db:            testDB,
		router:        router,
		registrations: registrationService,
		reviews:       reviewService,
		publisher:     publisher,
	}
}

func tokenFor(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := util.GenerateAccessToken(util.TokenSubject{
		UserID:   userID,
		Email:    "caller@example.com",
		Username: "caller",
		Role:     role,
	}, testJWTSecret, "bizreview", time.Hour)
	require.NoError(t, err)
	return token
}

func (env *controllerTestEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registrationPayload(locations int) map[string]interface{} {
	items := make([]map[string]interface{}, 0, locations)
	for i := 0; i < locations; i++ {
		items = append(items, map[string]interface{}{
			"label":             "Store",
			"formatted_address": "1 Market Street, San Francisco",
		})
	}
	return map[string]interface{}{
		"name":           "Blue Bottle Coffee",
		"category":       "Cafe",
		"address":        "1 Market Street, San Francisco",
		"document_urls":  []string{"https://cdn.example.com/registrations/documents/license.pdf"},
		"owner_email":    "owner@example.com",
		"owner_username": "blueowner",
		"locations":      items,
	}
}

func (env *controllerTestEnv) seedRegistration(t *testing.T, userID uuid.UUID, locations int) *model.BusinessRegistration {
	t.Helper()
	input := service.SubmitRegistrationInput{
		UserID:        userID,
		Name:          "Blue Bottle Coffee",
		Category:      "Cafe",
		Address:       "1 Market Street, San Francisco",
		DocumentURLs:  []string{"https://cdn.example.com/registrations/documents/license.pdf"},
		OwnerEmail:    "owner@example.com",
		OwnerUsername: "blueowner",
	}
	for i := 0; i < locations; i++ {
		input.Locations = append(input.Locations, service.LocationInput{
			Label:            "Store",
			FormattedAddress: "1 Market Street, San Francisco",
		})
	}
	registration, err := env.registrations.Submit(input)
	require.NoError(t, err)
	return registration
}
