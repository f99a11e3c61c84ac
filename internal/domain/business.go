package domain

import "time"

// BusinessProfile is a provider's public-facing storefront, distinct from
// the provider's personal account. Verified gates visibility of its
// services and slots to customers.
type BusinessProfile struct {
	ID            string
	ProviderID    string
	CategoryID    *string
	Name          string
	Description   string
	Phone         string
	State         string
	City          string
	Website       *string
	LogoURL       *string
	CoverImageURL *string
	Verified      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
