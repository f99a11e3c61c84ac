package dto

import (
	"time"

	"github.com/spec-kit/homeservice/internal/domain"
)

// AddressRequest payload for create/update.
type AddressRequest struct {
	Type    domain.AddressType `json:"type" validate:"required,oneof=home work billing shipping other"`
	Street  string             `json:"street" validate:"required,max=255"`
	City    string             `json:"city" validate:"required,max=120"`
	State   string             `json:"state" validate:"required,max=120"`
	ZipCode string             `json:"zip_code" validate:"required,max=20"`
}

// AddressResponse shape.
type AddressResponse struct {
	ID        string             `json:"id"`
	Type      domain.AddressType `json:"type"`
	Street    string             `json:"street"`
	City      string             `json:"city"`
	State     string             `json:"state"`
	ZipCode   string             `json:"zip_code"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewAddressResponse maps a domain address.
func NewAddressResponse(address *domain.Address) AddressResponse {
	return AddressResponse{
		ID:        address.ID,
		Type:      address.Type,
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		ZipCode:   address.ZipCode,
		CreatedAt: address.CreatedAt,
	}
}

// NewAddressResponses maps a slice of domain addresses.
func NewAddressResponses(addresses []domain.Address) []AddressResponse {
	result := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		result = append(result, NewAddressResponse(&addresses[i]))
	}
	return result
}
