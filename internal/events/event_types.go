package events

import (
	"time"

	"github.com/spec-kit/homeservice/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventBusinessVerified     EventType = "business_verified"
	EventFeedbackSubmitted    EventType = "feedback_submitted"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	BookingID  string    `json:"booking_id"`
	Reference  string    `json:"reference"`
	BusinessID string    `json:"business_id"`
	ServiceID  string    `json:"service_id"`
	Date       time.Time `json:"date"`
	TotalPrice int64     `json:"total_price"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	BookingID string               `json:"booking_id"`
	Reference string               `json:"reference"`
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// BusinessVerifiedPayload payload.
type BusinessVerifiedPayload struct {
	BusinessID string `json:"business_id"`
	Verified   bool   `json:"verified"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	FeedbackID string  `json:"feedback_id"`
	BookingID  string  `json:"booking_id"`
	ServiceID  string  `json:"service_id"`
	Rating     float64 `json:"rating"`
}
