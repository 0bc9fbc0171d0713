package errors

// Error code constants returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from these codes.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== AUTHZ_ ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== REGISTRATION_ ====================
	RegistrationNotFound         = "REGISTRATION_NOT_FOUND"
	RegistrationLocationRequired = "REGISTRATION_LOCATION_REQUIRED"

	// ==================== REVIEW_ ====================
	ReviewInvalidAction     = "REVIEW_INVALID_ACTION"
	ReviewInvalidTransition = "REVIEW_INVALID_TRANSITION"
	ReviewReasonRequired    = "REVIEW_REJECTION_REASON_REQUIRED"
	ReviewReviewerRequired  = "REVIEW_REVIEWER_REQUIRED"
	ReviewEventImmutable    = "REVIEW_EVENT_IMMUTABLE"

	// ==================== LOCATION_ ====================
	LocationNotFound      = "LOCATION_NOT_FOUND"
	LocationLastRemaining = "LOCATION_LAST_REMAINING"
	LocationAdminNotFound = "LOCATION_ADMIN_NOT_FOUND"

	// ==================== PROMOTION_ ====================
	PromotionNotFound         = "PROMOTION_NOT_FOUND"
	PromotionInvalidSchedule  = "PROMOTION_INVALID_SCHEDULE"
	PromotionLocationRequired = "PROMOTION_LOCATION_REQUIRED"
	PromotionInvalidDiscount  = "PROMOTION_INVALID_DISCOUNT"
	PromotionPrizeRequired    = "PROMOTION_PRIZE_REQUIRED"
	PromotionShareFailed      = "PROMOTION_SHARE_FAILED"

	// ==================== COMPANY_ / UNIT_ / BUSINESS_ ====================
	CompanyNotFound  = "COMPANY_NOT_FOUND"
	UnitNotFound     = "UNIT_NOT_FOUND"
	BusinessNotFound = "BUSINESS_NOT_FOUND"

	// ==================== UPLOAD_ ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
