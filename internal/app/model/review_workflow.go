package model

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned when an action would move a registration
// into a status that is not reachable from its current one.
var ErrIllegalTransition = errors.New("illegal registration status transition")

var allowedTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationStatusPending: {
		RegistrationStatusUnderReview,
		RegistrationStatusApproved,
		RegistrationStatusRejected,
		RegistrationStatusSuspended,
	},
	RegistrationStatusUnderReview: {
		RegistrationStatusApproved,
		RegistrationStatusRejected,
		RegistrationStatusSuspended,
	},
	RegistrationStatusApproved: {
		RegistrationStatusSuspended,
	},
	RegistrationStatusSuspended: {
		RegistrationStatusUnderReview,
	},
}

// CanTransitionTo reports whether next is reachable from s. Staying in the
// same status is always allowed.
func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TargetStatus maps an action onto the status it produces. Comment keeps current.
func (a ReviewAction) TargetStatus(current RegistrationStatus) RegistrationStatus {
	switch a {
	case ReviewActionApprove:
		return RegistrationStatusApproved
	case ReviewActionReject:
		return RegistrationStatusRejected
	case ReviewActionRequestMoreInfo, ReviewActionResume:
		return RegistrationStatusUnderReview
	case ReviewActionSuspend:
		return RegistrationStatusSuspended
	default:
		return current
	}
}

// RequiresRejectionReason reports whether the action must carry a reason.
func (a ReviewAction) RequiresRejectionReason() bool {
	return a == ReviewActionReject
}

// NextStatus applies the action to current and validates the transition.
func NextStatus(current RegistrationStatus, action ReviewAction) (RegistrationStatus, error) {
	if !action.IsValid() {
		return current, fmt.Errorf("invalid review action %q", action)
	}
	next := action.TargetStatus(current)
	if !current.CanTransitionTo(next) {
		return current, fmt.Errorf("%w: %s -> %s via %s", ErrIllegalTransition, current, next, action)
	}
	return next, nil
}
