package domain

import "time"

// Category is an admin-managed taxonomy node for businesses.
type Category struct {
	ID          string
	Name        string
	Description string
	ImageURL    *string
	CreatedAt   time.Time
}
