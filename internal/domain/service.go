package domain

import "time"

// Service is an offering of a business. Price is captured onto bookings at
// creation time; Rating and ReviewCount are the aggregate recomputed on
// every feedback insert.
type Service struct {
	ID              string
	BusinessID      string
	Name            string
	Description     string
	Price           int64
	DurationMinutes int
	ImageURL        *string
	Active          bool
	Rating          float64
	ReviewCount     int
	CreatedAt       time.Time
}
