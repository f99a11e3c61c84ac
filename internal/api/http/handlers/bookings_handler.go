package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservice/internal/api/dto"
	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/service"
	"github.com/spec-kit/homeservice/internal/validation"
	"github.com/spec-kit/homeservice/pkg/util"
)

// BookingsHandler exposes the booking lifecycle.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookingService}
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return util.NewValidationError("date must be YYYY-MM-DD", map[string]any{"date": req.Date})
	}

	booking, err := h.bookings.Create(c.Context(), principal.User.ID, service.BookingCreateInput{
		ServiceID: req.ServiceID,
		SlotID:    req.SlotID,
		AddressID: req.AddressID,
		Date:      date,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

// Get handles GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	booking, err := h.bookings.GetForParticipant(c.Context(), principal.User.ID, principal.Role, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

// ListMine handles GET /bookings.
func (h *BookingsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	details, err := h.bookings.ListForCustomer(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingDetailResponses(details)})
}

// ListForBusiness handles GET /bookings/business.
func (h *BookingsHandler) ListForBusiness(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	details, err := h.bookings.ListForProvider(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingDetailResponses(details)})
}

// Accept handles PATCH /bookings/:id/accept.
func (h *BookingsHandler) Accept(c *fiber.Ctx) error {
	return h.providerTransition(c, h.bookings.Accept)
}

// Reject handles PATCH /bookings/:id/reject.
func (h *BookingsHandler) Reject(c *fiber.Ctx) error {
	return h.providerTransition(c, h.bookings.Reject)
}

// Complete handles PATCH /bookings/:id/complete.
func (h *BookingsHandler) Complete(c *fiber.Ctx) error {
	return h.providerTransition(c, h.bookings.Complete)
}

// Cancel handles PATCH /bookings/:id/cancel.
func (h *BookingsHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	booking, err := h.bookings.Cancel(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

func (h *BookingsHandler) providerTransition(c *fiber.Ctx, transition func(ctx context.Context, providerID, bookingID string) (*domain.Booking, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	booking, err := transition(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}
