package stories

import "time"

// PromotionStory is the snapshot of a promotion published to the stories feed.
type PromotionStory struct {
	PromotionID    string    `json:"promotion_id"`
	RegistrationID string    `json:"registration_id"`
	BusinessName   string    `json:"business_name"`
	Title          string    `json:"title"`
	Subtitle       *string   `json:"subtitle,omitempty"`
	PromotionType  string    `json:"promotion_type"`
	ImageURL       *string   `json:"image_url,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	LocationIDs    []string  `json:"location_ids,omitempty"`
}

// ErrorResponse is the error body returned by the stories service
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
