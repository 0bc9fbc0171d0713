package model

import "fmt"

// RegistrationStatus is the review state of a registration request.
type RegistrationStatus string

const (
	RegistrationStatusPending     RegistrationStatus = "pending"
	RegistrationStatusUnderReview RegistrationStatus = "under_review"
	RegistrationStatusApproved    RegistrationStatus = "approved"
	RegistrationStatusRejected    RegistrationStatus = "rejected"
	RegistrationStatusSuspended   RegistrationStatus = "suspended"
)

var validRegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPending,
	RegistrationStatusUnderReview,
	RegistrationStatusApproved,
	RegistrationStatusRejected,
	RegistrationStatusSuspended,
}

func (s RegistrationStatus) String() string {
	return string(s)
}

func (s RegistrationStatus) IsValid() bool {
	for _, candidate := range validRegistrationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseRegistrationStatus(value string) (RegistrationStatus, error) {
	for _, candidate := range validRegistrationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid registration status %q", value)
}

// ReviewAction is a reviewer decision recorded as a review event.
type ReviewAction string

const (
	ReviewActionApprove         ReviewAction = "approve"
	ReviewActionReject          ReviewAction = "reject"
	ReviewActionRequestMoreInfo ReviewAction = "request_more_info"
	ReviewActionSuspend         ReviewAction = "suspend"
	ReviewActionResume          ReviewAction = "resume"
	ReviewActionComment         ReviewAction = "comment"
)

var validReviewActions = []ReviewAction{
	ReviewActionApprove,
	ReviewActionReject,
	ReviewActionRequestMoreInfo,
	ReviewActionSuspend,
	ReviewActionResume,
	ReviewActionComment,
}

func (a ReviewAction) String() string {
	return string(a)
}

func (a ReviewAction) IsValid() bool {
	for _, candidate := range validReviewActions {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseReviewAction(value string) (ReviewAction, error) {
	for _, candidate := range validReviewActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review action %q", value)
}

// PromotionType classifies a promotion.
type PromotionType string

const (
	PromotionTypeDiscount  PromotionType = "discount"
	PromotionTypeContest   PromotionType = "contest"
	PromotionTypeEvent     PromotionType = "event"
	PromotionTypeChallenge PromotionType = "challenge"
)

var validPromotionTypes = []PromotionType{
	PromotionTypeDiscount,
	PromotionTypeContest,
	PromotionTypeEvent,
	PromotionTypeChallenge,
}

func (t PromotionType) String() string {
	return string(t)
}

func (t PromotionType) IsValid() bool {
	for _, candidate := range validPromotionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParsePromotionType(value string) (PromotionType, error) {
	for _, candidate := range validPromotionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion type %q", value)
}

type PromotionStatus string

const (
	PromotionStatusDraft     PromotionStatus = "draft"
	PromotionStatusScheduled PromotionStatus = "scheduled"
	PromotionStatusActive    PromotionStatus = "active"
	PromotionStatusExpired   PromotionStatus = "expired"
	PromotionStatusCancelled PromotionStatus = "cancelled"
)

var validPromotionStatuses = []PromotionStatus{
	PromotionStatusDraft,
	PromotionStatusScheduled,
	PromotionStatusActive,
	PromotionStatusExpired,
	PromotionStatusCancelled,
}

func (s PromotionStatus) String() string {
	return string(s)
}

func (s PromotionStatus) IsValid() bool {
	for _, candidate := range validPromotionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParsePromotionStatus(value string) (PromotionStatus, error) {
	for _, candidate := range validPromotionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion status %q", value)
}

// PromotionScope decides whether a promotion applies business-wide or to specific locations.
type PromotionScope string

const (
	PromotionScopeBusiness PromotionScope = "business"
	PromotionScopeLocation PromotionScope = "location"
)

func (s PromotionScope) String() string {
	return string(s)
}

func (s PromotionScope) IsValid() bool {
	return s == PromotionScopeBusiness || s == PromotionScopeLocation
}

func ParsePromotionScope(value string) (PromotionScope, error) {
	scope := PromotionScope(value)
	if !scope.IsValid() {
		return "", fmt.Errorf("invalid promotion scope %q", value)
	}
	return scope, nil
}

type LocationAdminRole string

const (
	LocationAdminRoleOwner   LocationAdminRole = "owner"
	LocationAdminRoleManager LocationAdminRole = "manager"
	LocationAdminRoleStaff   LocationAdminRole = "staff"
)

func (r LocationAdminRole) String() string {
	return string(r)
}

func (r LocationAdminRole) IsValid() bool {
	switch r {
	case LocationAdminRoleOwner, LocationAdminRoleManager, LocationAdminRoleStaff:
		return true
	}
	return false
}

func ParseLocationAdminRole(value string) (LocationAdminRole, error) {
	role := LocationAdminRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid location admin role %q", value)
	}
	return role, nil
}
