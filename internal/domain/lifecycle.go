package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTransition is returned for a status or payment change not allowed by the lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus is returned for an unknown status value
	ErrInvalidStatus = errors.New("invalid status")
)

var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: nil,
	StatusCancelled: nil,
	StatusNoShow:    nil,
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentPaid},
	PaymentPaid:      {PaymentRefunded},
	PaymentRefunded:  nil,
	PaymentCancelled: nil,
}

// ParseBookingStatus validates s
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := statusTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// ParsePaymentStatus validates s
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if _, ok := paymentTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsOccupying returns true for statuses that block the employee's calendar
func (s BookingStatus) IsOccupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no further transition is allowed
func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is allowed. Same status is always allowed (no-op).
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanTransitionPayment reports whether the payment status can move to next
// given the booking's own status
func CanTransitionPayment(status BookingStatus, from, to PaymentStatus) bool {
	if from == to {
		return true
	}
	// Payment can be cancelled only once the booking itself is cancelled or a no-show
	if to == PaymentCancelled {
		return status == StatusCancelled || status == StatusNoShow
	}
	for _, allowed := range paymentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionStatus applies a status change.
// Returns changed=false for the idempotent same-status case; the booking is untouched on error.
func (b *Booking) TransitionStatus(next BookingStatus, now time.Time) (bool, error) {
	if _, ok := statusTransitions[next]; !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !b.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: status %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	if b.Status == next {
		return false, nil
	}
	b.Status = next
	b.UpdatedAt = now
	return true, nil
}

// TransitionPaymentStatus applies a payment status change, same contract as TransitionStatus
func (b *Booking) TransitionPaymentStatus(next PaymentStatus, now time.Time) (bool, error) {
	if _, ok := paymentTransitions[next]; !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !CanTransitionPayment(b.Status, b.PaymentStatus, next) {
		return false, fmt.Errorf("%w: payment %s -> %s (booking %s)", ErrInvalidTransition, b.PaymentStatus, next, b.Status)
	}
	if b.PaymentStatus == next {
		return false, nil
	}
	b.PaymentStatus = next
	b.UpdatedAt = now
	return true, nil
}
