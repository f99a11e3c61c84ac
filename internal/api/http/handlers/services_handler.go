package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservice/internal/api/dto"
	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/service"
	"github.com/spec-kit/homeservice/internal/validation"
)

// ServicesHandler exposes provider service offerings. Browsing is public;
// mutation requires the provider role at the route level.
type ServicesHandler struct {
	catalog  *service.CatalogService
	feedback *service.FeedbackService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalogService *service.CatalogService, feedbackService *service.FeedbackService) *ServicesHandler {
	return &ServicesHandler{catalog: catalogService, feedback: feedbackService}
}

// Create handles POST /services.
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	offering, err := h.catalog.CreateService(c.Context(), principal.User.ID, serviceInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceResponse(offering)})
}

// Update handles PUT /services/:id.
func (h *ServicesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	offering, err := h.catalog.UpdateService(c.Context(), principal.User.ID, c.Params("id"), serviceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(offering)})
}

// Get handles GET /services/:id.
func (h *ServicesHandler) Get(c *fiber.Ctx) error {
	offering, err := h.catalog.GetService(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(offering)})
}

// List handles GET /services.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	listings, err := h.catalog.ListServices(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceListingResponses(listings)})
}

// Reviews handles GET /services/:id/reviews.
func (h *ServicesHandler) Reviews(c *fiber.Ctx) error {
	entries, err := h.feedback.ListByService(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFeedbackEntryResponses(entries)})
}

// Delete handles DELETE /services/:id.
func (h *ServicesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.catalog.DeleteService(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func serviceInput(req dto.ServiceRequest) service.ServiceInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return service.ServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		ImageURL:        req.ImageURL,
		Active:          active,
	}
}
