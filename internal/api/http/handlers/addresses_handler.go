package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservice/internal/api/dto"
	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/service"
	"github.com/spec-kit/homeservice/internal/validation"
)

// AddressesHandler exposes the caller's address book.
type AddressesHandler struct {
	addresses *service.AddressService
}

// NewAddressesHandler constructs handler.
func NewAddressesHandler(addressService *service.AddressService) *AddressesHandler {
	return &AddressesHandler{addresses: addressService}
}

// Create handles POST /addresses.
func (h *AddressesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	address, err := h.addresses.Create(c.Context(), principal.User.ID, addressInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAddressResponse(address)})
}

// Update handles PUT /addresses/:id.
func (h *AddressesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	address, err := h.addresses.Update(c.Context(), principal.User.ID, c.Params("id"), addressInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAddressResponse(address)})
}

// Get handles GET /addresses/:id.
func (h *AddressesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	address, err := h.addresses.Get(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAddressResponse(address)})
}

// List handles GET /addresses.
func (h *AddressesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	addresses, err := h.addresses.List(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAddressResponses(addresses)})
}

// Delete handles DELETE /addresses/:id.
func (h *AddressesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.addresses.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func addressInput(req dto.AddressRequest) service.AddressInput {
	return service.AddressInput{
		Type:    req.Type,
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	}
}
