package domain

import "time"

// BookingStatus enumerates the booking lifecycle.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the full set of legal moves. No transition is
// reversible and completed/cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// CanTransition reports whether moving from current to next is legal.
func CanTransition(current, next BookingStatus) bool {
	for _, candidate := range bookingTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Booking reserves one slot occurrence on one calendar date. TotalPrice is
// the service price captured at creation time.
type Booking struct {
	ID         string
	Reference  string
	CustomerID string
	BusinessID string
	ServiceID  string
	SlotID     string
	AddressID  string
	Date       time.Time
	Status     BookingStatus
	TotalPrice int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
