package dto

import (
	"time"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
)

// BusinessRequest payload for create/update.
type BusinessRequest struct {
	CategoryID    *string `json:"category_id" validate:"omitempty,uuid"`
	Name          string  `json:"name" validate:"required,max=160"`
	Description   string  `json:"description" validate:"max=2000"`
	Phone         string  `json:"phone" validate:"required,min=7,max=20"`
	State         string  `json:"state" validate:"required,max=120"`
	City          string  `json:"city" validate:"required,max=120"`
	Website       *string `json:"website" validate:"omitempty,url"`
	LogoURL       *string `json:"logo_url" validate:"omitempty,url"`
	CoverImageURL *string `json:"cover_image_url" validate:"omitempty,url"`
}

// VerifyBusinessRequest payload.
type VerifyBusinessRequest struct {
	Verified bool `json:"verified"`
}

// BusinessResponse shape.
type BusinessResponse struct {
	ID            string    `json:"id"`
	ProviderID    string    `json:"provider_id"`
	CategoryID    *string   `json:"category_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Phone         string    `json:"phone"`
	State         string    `json:"state"`
	City          string    `json:"city"`
	Website       *string   `json:"website"`
	LogoURL       *string   `json:"logo_url"`
	CoverImageURL *string   `json:"cover_image_url"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// BusinessListingResponse adds category and provider context.
type BusinessListingResponse struct {
	BusinessResponse
	CategoryName  *string `json:"category_name"`
	ProviderName  string  `json:"provider_name"`
	ProviderEmail string  `json:"provider_email"`
	ProviderPhone string  `json:"provider_phone"`
}

// SlotRequest payload. Times are HH:MM.
type SlotRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// SlotGenerationRequest payload for bulk generation from working hours.
type SlotGenerationRequest struct {
	OpenTime        string  `json:"open_time" validate:"required"`
	CloseTime       string  `json:"close_time" validate:"required"`
	BreakStart      *string `json:"break_start"`
	BreakEnd        *string `json:"break_end"`
	IntervalMinutes int     `json:"interval_minutes" validate:"required,gt=0,lte=720"`
}

// SlotResponse shape.
type SlotResponse struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// NewBusinessResponse maps a domain business profile.
func NewBusinessResponse(profile *domain.BusinessProfile) BusinessResponse {
	return BusinessResponse{
		ID:            profile.ID,
		ProviderID:    profile.ProviderID,
		CategoryID:    profile.CategoryID,
		Name:          profile.Name,
		Description:   profile.Description,
		Phone:         profile.Phone,
		State:         profile.State,
		City:          profile.City,
		Website:       profile.Website,
		LogoURL:       profile.LogoURL,
		CoverImageURL: profile.CoverImageURL,
		Verified:      profile.Verified,
		CreatedAt:     profile.CreatedAt,
	}
}

// NewBusinessListingResponse maps a joined listing.
func NewBusinessListingResponse(listing *repository.BusinessListing) BusinessListingResponse {
	return BusinessListingResponse{
		BusinessResponse: NewBusinessResponse(&listing.BusinessProfile),
		CategoryName:     listing.CategoryName,
		ProviderName:     listing.ProviderName,
		ProviderEmail:    listing.ProviderEmail,
		ProviderPhone:    listing.ProviderPhone,
	}
}

// NewBusinessListingResponses maps a slice of joined listings.
func NewBusinessListingResponses(listings []repository.BusinessListing) []BusinessListingResponse {
	result := make([]BusinessListingResponse, 0, len(listings))
	for i := range listings {
		result = append(result, NewBusinessListingResponse(&listings[i]))
	}
	return result
}

// NewSlotResponse maps a domain slot.
func NewSlotResponse(slot *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:         slot.ID,
		BusinessID: slot.BusinessID,
		Start:      slot.Start.String(),
		End:        slot.End.String(),
	}
}

// NewSlotResponses maps a slice of domain slots.
func NewSlotResponses(slots []domain.Slot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, NewSlotResponse(&slots[i]))
	}
	return result
}
