package navigation

import "github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"

// SessionStatus is the lifecycle state of a navigation session.
type SessionStatus string

const (
	StatusCreated    SessionStatus = "created"
	StatusNavigating SessionStatus = "navigating"
	StatusArrived    SessionStatus = "arrived"
	StatusCompleted  SessionStatus = "completed"
	StatusCancelled  SessionStatus = "cancelled"
)

var validTransitions = map[SessionStatus][]SessionStatus{
	StatusCreated:    {StatusNavigating, StatusCancelled},
	StatusNavigating: {StatusArrived, StatusCancelled},
	StatusArrived:    {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ParseSessionStatus validates a raw status string.
func ParseSessionStatus(raw string) (SessionStatus, error) {
	status := SessionStatus(raw)
	if _, ok := validTransitions[status]; !ok {
		return "", apperr.NewValidationError("unknown session status: " + raw)
	}
	return status, nil
}

// CanTransitionTo reports whether moving to target is a legal transition.
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, next := range allowed {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session can no longer change state.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s SessionStatus) validateTransition(target SessionStatus) error {
	if !s.CanTransitionTo(target) {
		return apperr.NewInvalidStateError(string(s), string(target))
	}
	return nil
}
