package domain

import "time"

// Feedback is a customer's rating of one completed booking. At most one row
// exists per booking.
type Feedback struct {
	ID         string
	BookingID  string
	ServiceID  string
	CustomerID string
	Rating     float64
	Comments   *string
	CreatedAt  time.Time
}
