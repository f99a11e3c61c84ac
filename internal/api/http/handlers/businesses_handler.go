package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservice/internal/api/dto"
	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/events"
	"github.com/spec-kit/homeservice/internal/service"
	"github.com/spec-kit/homeservice/internal/validation"
	"github.com/spec-kit/homeservice/pkg/util"
)

// BusinessesHandler exposes business profiles, verification and slots.
type BusinessesHandler struct {
	businesses *service.BusinessService
	catalog    *service.CatalogService
	feedback   *service.FeedbackService
}

// NewBusinessesHandler constructs handler.
func NewBusinessesHandler(businessService *service.BusinessService, catalogService *service.CatalogService, feedbackService *service.FeedbackService) *BusinessesHandler {
	return &BusinessesHandler{businesses: businessService, catalog: catalogService, feedback: feedbackService}
}

// Create handles POST /businesses.
func (h *BusinessesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.BusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	profile, err := h.businesses.CreateProfile(c.Context(), principal.User.ID, businessInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBusinessResponse(profile)})
}

// UpdateMine handles PUT /businesses/me.
func (h *BusinessesHandler) UpdateMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.BusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	profile, err := h.businesses.UpdateProfile(c.Context(), principal.User.ID, businessInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessResponse(profile)})
}

// GetMine handles GET /businesses/me.
func (h *BusinessesHandler) GetMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	profile, err := h.businesses.GetMine(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessResponse(profile)})
}

// Get handles GET /businesses/:id.
func (h *BusinessesHandler) Get(c *fiber.Ctx) error {
	listing, err := h.businesses.GetListing(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessListingResponse(listing)})
}

// List handles GET /businesses.
func (h *BusinessesHandler) List(c *fiber.Ctx) error {
	listings, err := h.businesses.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessListingResponses(listings)})
}

// Verify handles PATCH /admin/businesses/:id/verify.
func (h *BusinessesHandler) Verify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.VerifyBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	actor := events.Actor{UserID: principal.User.ID, Role: domain.RoleAdmin}
	profile, err := h.businesses.SetVerified(c.Context(), actor, c.Params("id"), req.Verified)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessResponse(profile)})
}

// Delete handles DELETE /businesses/:id.
func (h *BusinessesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.businesses.DeleteProfile(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Services handles GET /businesses/:id/services.
func (h *BusinessesHandler) Services(c *fiber.Ctx) error {
	offerings, err := h.catalog.ListBusinessServices(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponses(offerings)})
}

// Reviews handles GET /businesses/:id/reviews.
func (h *BusinessesHandler) Reviews(c *fiber.Ctx) error {
	entries, err := h.feedback.ListByBusiness(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFeedbackEntryResponses(entries)})
}

// AddSlot handles POST /slots.
func (h *BusinessesHandler) AddSlot(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.SlotRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		return util.NewValidationError("invalid start time", map[string]any{"start": req.Start})
	}
	end, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		return util.NewValidationError("invalid end time", map[string]any{"end": req.End})
	}

	slot, err := h.businesses.AddSlot(c.Context(), principal.User.ID, start, end)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSlotResponse(slot)})
}

// GenerateSlots handles POST /slots/generate.
func (h *BusinessesHandler) GenerateSlots(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.SlotGenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	input, err := slotGenerationInput(req)
	if err != nil {
		return err
	}
	created, err := h.businesses.GenerateSlots(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"created": len(created),
			"slots":   dto.NewSlotResponses(created),
		},
	})
}

// ListMySlots handles GET /slots.
func (h *BusinessesHandler) ListMySlots(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	slots, err := h.businesses.ListSlots(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSlotResponses(slots)})
}

// ListBusinessSlots handles GET /businesses/:id/slots.
func (h *BusinessesHandler) ListBusinessSlots(c *fiber.Ctx) error {
	slots, err := h.businesses.ListSlotsPublic(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSlotResponses(slots)})
}

// DeleteSlot handles DELETE /slots/:id.
func (h *BusinessesHandler) DeleteSlot(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.businesses.DeleteSlot(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func businessInput(req dto.BusinessRequest) service.BusinessInput {
	return service.BusinessInput{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		Phone:         req.Phone,
		State:         req.State,
		City:          req.City,
		Website:       req.Website,
		LogoURL:       req.LogoURL,
		CoverImageURL: req.CoverImageURL,
	}
}

func slotGenerationInput(req dto.SlotGenerationRequest) (service.SlotGenerationInput, error) {
	open, err := domain.ParseTimeOfDay(req.OpenTime)
	if err != nil {
		return service.SlotGenerationInput{}, util.NewValidationError("invalid open time", map[string]any{"open_time": req.OpenTime})
	}
	closeTime, err := domain.ParseTimeOfDay(req.CloseTime)
	if err != nil {
		return service.SlotGenerationInput{}, util.NewValidationError("invalid close time", map[string]any{"close_time": req.CloseTime})
	}

	input := service.SlotGenerationInput{
		OpenTime:        open,
		CloseTime:       closeTime,
		IntervalMinutes: req.IntervalMinutes,
	}
	if req.BreakStart != nil {
		start, err := domain.ParseTimeOfDay(*req.BreakStart)
		if err != nil {
			return service.SlotGenerationInput{}, util.NewValidationError("invalid break start", map[string]any{"break_start": *req.BreakStart})
		}
		input.BreakStart = &start
	}
	if req.BreakEnd != nil {
		end, err := domain.ParseTimeOfDay(*req.BreakEnd)
		if err != nil {
			return service.SlotGenerationInput{}, util.NewValidationError("invalid break end", map[string]any{"break_end": *req.BreakEnd})
		}
		input.BreakEnd = &end
	}
	return input, nil
}
