package dto

import (
	"time"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
)

// CreateBookingRequest payload. Date is YYYY-MM-DD.
type CreateBookingRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	SlotID    string `json:"slot_id" validate:"required,uuid"`
	AddressID string `json:"address_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// BookingResponse shape.
type BookingResponse struct {
	ID         string               `json:"id"`
	Reference  string               `json:"reference"`
	CustomerID string               `json:"customer_id"`
	BusinessID string               `json:"business_id"`
	ServiceID  string               `json:"service_id"`
	SlotID     string               `json:"slot_id"`
	AddressID  string               `json:"address_id"`
	Date       string               `json:"date"`
	Status     domain.BookingStatus `json:"status"`
	TotalPrice int64                `json:"total_price"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// BookingDetailResponse adds joined customer, service, slot and address
// context for listings.
type BookingDetailResponse struct {
	BookingResponse
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	BusinessName  string `json:"business_name"`
	ServiceName   string `json:"service_name"`
	SlotStart     string `json:"slot_start"`
	SlotEnd       string `json:"slot_end"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
}

// NewBookingResponse maps a domain booking.
func NewBookingResponse(booking *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:         booking.ID,
		Reference:  booking.Reference,
		CustomerID: booking.CustomerID,
		BusinessID: booking.BusinessID,
		ServiceID:  booking.ServiceID,
		SlotID:     booking.SlotID,
		AddressID:  booking.AddressID,
		Date:       booking.Date.Format("2006-01-02"),
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
		CreatedAt:  booking.CreatedAt,
		UpdatedAt:  booking.UpdatedAt,
	}
}

// NewBookingDetailResponses maps joined booking details.
func NewBookingDetailResponses(details []repository.BookingDetail) []BookingDetailResponse {
	result := make([]BookingDetailResponse, 0, len(details))
	for i := range details {
		detail := &details[i]
		result = append(result, BookingDetailResponse{
			BookingResponse: NewBookingResponse(&detail.Booking),
			CustomerName:    detail.CustomerName,
			CustomerEmail:   detail.CustomerEmail,
			CustomerPhone:   detail.CustomerPhone,
			BusinessName:    detail.BusinessName,
			ServiceName:     detail.ServiceName,
			SlotStart:       detail.SlotStart.String(),
			SlotEnd:         detail.SlotEnd.String(),
			Street:          detail.Street,
			City:            detail.City,
			State:           detail.State,
			ZipCode:         detail.ZipCode,
		})
	}
	return result
}
