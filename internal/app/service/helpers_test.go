package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/internal/db"
	"github.com/ikkim/bizreview-backend/pkg/stories"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServices struct {
	db            *gorm.DB
	registrations RegistrationService
	reviews       ReviewService
	locations     LocationService
	promotions    PromotionService
	companies     CompanyService
	admins        LocationAdminService
	businesses    BusinessService
	notifier      *recordingNotifier
	publisher     *recordingPublisher
}

func setupServiceTest(t *testing.T) *testServices {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	registrationRepo := repository.NewRegistrationRepository(testDB)
	eventRepo := repository.NewReviewEventRepository(testDB)
	locationRepo := repository.NewLocationRepository(testDB)
	promotionRepo := repository.NewPromotionRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	companyRepo := repository.NewCompanyRepository(testDB)
	unitRepo := repository.NewUnitRepository(testDB)
	adminRepo := repository.NewLocationAdminRepository(testDB)

	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}

	return &testServices{
		db:            testDB,
		registrations: NewRegistrationService(registrationRepo, locationRepo, testDB, nil),
		reviews:       NewReviewService(registrationRepo, eventRepo, locationRepo, unitRepo, businessRepo, testDB, notifier, nil),
		locations:     NewLocationService(registrationRepo, locationRepo, testDB),
		promotions:    NewPromotionService(registrationRepo, locationRepo, promotionRepo, publisher, testDB),
		companies:     NewCompanyService(companyRepo, unitRepo, registrationRepo, locationRepo, promotionRepo, testDB),
		admins:        NewLocationAdminService(locationRepo, adminRepo, testDB),
		businesses:    NewBusinessService(businessRepo),
		notifier:      notifier,
		publisher:     publisher,
	}
}

func registrationInput(userID uuid.UUID, locations int) SubmitRegistrationInput {
	input := SubmitRegistrationInput{
		UserID:        userID,
		Name:          "Blue Bottle Coffee",
		Category:      "Cafe",
		Address:       "1 Market Street, San Francisco",
		DocumentURLs:  []string{"https://cdn.example.com/registrations/documents/license.pdf"},
		OwnerEmail:    "owner@example.com",
		OwnerUsername: "blueowner",
	}
	for i := 0; i < locations; i++ {
		input.Locations = append(input.Locations, locationInput(fmt.Sprintf("Store %d", i+1)))
	}
	return input
}

func locationInput(label string) LocationInput {
	return LocationInput{
		Label:            label,
		FormattedAddress: label + ", 1 Market Street, San Francisco",
	}
}

func submitRegistration(t *testing.T, svc *testServices, locations int) *model.BusinessRegistration {
	t.Helper()
	registration, err := svc.registrations.Submit(registrationInput(uuid.New(), locations))
	require.NoError(t, err)
	return registration
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func countRows(t *testing.T, db *gorm.DB, table string, where string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	query := db.Table(table)
	if where != "" {
		query = query.Where(where, args...)
	}
	require.NoError(t, query.Count(&count).Error)
	return count
}

// stepClock returns increasing timestamps one second apart.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []model.ReviewNotification
}

func (n *recordingNotifier) NotifyReview(notification model.ReviewNotification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *recordingNotifier) all() []model.ReviewNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.ReviewNotification(nil), n.notifications...)
}

type recordingPublisher struct {
	stories []stories.PromotionStory
	err     error
}

func (p *recordingPublisher) PublishPromotion(ctx context.Context, story stories.PromotionStory) error {
	if p.err != nil {
		return p.err
	}
	p.stories = append(p.stories, story)
	return nil
}
