package dto

import (
	"time"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
)

// CategoryRequest payload for create/update.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

// CategoryResponse shape.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceRequest payload for create/update. Price is in the smallest
// currency unit.
type ServiceRequest struct {
	Name            string  `json:"name" validate:"required,max=160"`
	Description     string  `json:"description" validate:"max=2000"`
	Price           int64   `json:"price" validate:"required,gt=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url"`
	Active          *bool   `json:"active"`
}

// ServiceResponse shape.
type ServiceResponse struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"business_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           int64     `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	ImageURL        *string   `json:"image_url"`
	Active          bool      `json:"active"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// ServiceListingResponse adds business context for browsing.
type ServiceListingResponse struct {
	ServiceResponse
	BusinessName     string `json:"business_name"`
	BusinessCity     string `json:"business_city"`
	BusinessState    string `json:"business_state"`
	BusinessVerified bool   `json:"business_verified"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ImageURL:    category.ImageURL,
		CreatedAt:   category.CreatedAt,
	}
}

// NewCategoryResponses maps a slice of domain categories.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, NewCategoryResponse(&categories[i]))
	}
	return result
}

// NewServiceResponse maps a domain service offering.
func NewServiceResponse(service *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              service.ID,
		BusinessID:      service.BusinessID,
		Name:            service.Name,
		Description:     service.Description,
		Price:           service.Price,
		DurationMinutes: service.DurationMinutes,
		ImageURL:        service.ImageURL,
		Active:          service.Active,
		Rating:          service.Rating,
		ReviewCount:     service.ReviewCount,
		CreatedAt:       service.CreatedAt,
	}
}

// NewServiceResponses maps a slice of domain service offerings.
func NewServiceResponses(services []domain.Service) []ServiceResponse {
	result := make([]ServiceResponse, 0, len(services))
	for i := range services {
		result = append(result, NewServiceResponse(&services[i]))
	}
	return result
}

// NewServiceListingResponses maps joined listings.
func NewServiceListingResponses(listings []repository.ServiceListing) []ServiceListingResponse {
	result := make([]ServiceListingResponse, 0, len(listings))
	for i := range listings {
		result = append(result, ServiceListingResponse{
			ServiceResponse:  NewServiceResponse(&listings[i].Service),
			BusinessName:     listings[i].BusinessName,
			BusinessCity:     listings[i].BusinessCity,
			BusinessState:    listings[i].BusinessState,
			BusinessVerified: listings[i].BusinessVerified,
		})
	}
	return result
}
