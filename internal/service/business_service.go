package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/events"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// BusinessService manages provider businesses, their verification status and
// their bookable slot templates.
type BusinessService struct {
	businesses repository.BusinessRepository
	slots      repository.SlotRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
}

// BusinessDependencies bundles collaborators for the business service.
type BusinessDependencies struct {
	BusinessRepo repository.BusinessRepository
	SlotRepo     repository.SlotRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
}

// BusinessInput describes profile create/update payloads.
type BusinessInput struct {
	CategoryID    *string
	Name          string
	Description   string
	Phone         string
	State         string
	City          string
	Website       *string
	LogoURL       *string
	CoverImageURL *string
}

// SlotGenerationInput describes bulk slot generation from working hours.
type SlotGenerationInput struct {
	OpenTime        domain.TimeOfDay
	CloseTime       domain.TimeOfDay
	BreakStart      *domain.TimeOfDay
	BreakEnd        *domain.TimeOfDay
	IntervalMinutes int
}

// NewBusinessService constructs the service.
func NewBusinessService(deps BusinessDependencies) *BusinessService {
	return &BusinessService{
		businesses: deps.BusinessRepo,
		slots:      deps.SlotRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateProfile registers the provider's business. Each provider has at
// most one.
func (s *BusinessService) CreateProfile(ctx context.Context, providerID string, input BusinessInput) (*domain.BusinessProfile, error) {
	if _, err := s.businesses.GetByProviderID(ctx, providerID); err == nil {
		return nil, util.NewConflict("provider already has a business profile", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewInternalError(err)
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	profile := &domain.BusinessProfile{
		ProviderID:    providerID,
		CategoryID:    input.CategoryID,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Phone:         input.Phone,
		State:         input.State,
		City:          input.City,
		Website:       input.Website,
		LogoURL:       input.LogoURL,
		CoverImageURL: input.CoverImageURL,
	}
	if err := s.businesses.Create(ctx, profile); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("provider already has a business profile", nil)
		}
		return nil, util.NewInternalError(err)
	}
	return profile, nil
}

// UpdateProfile replaces the provider's business fields. Verification status
// is not touched here.
func (s *BusinessService) UpdateProfile(ctx context.Context, providerID string, input BusinessInput) (*domain.BusinessProfile, error) {
	profile, err := s.GetMine(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	profile.CategoryID = input.CategoryID
	profile.Name = strings.TrimSpace(input.Name)
	profile.Description = input.Description
	profile.Phone = input.Phone
	profile.State = input.State
	profile.City = input.City
	profile.Website = input.Website
	profile.LogoURL = input.LogoURL
	profile.CoverImageURL = input.CoverImageURL
	if err := s.businesses.Update(ctx, profile); err != nil {
		return nil, util.NewInternalError(err)
	}
	return profile, nil
}

// GetMine returns the provider's own business profile.
func (s *BusinessService) GetMine(ctx context.Context, providerID string) (*domain.BusinessProfile, error) {
	profile, err := s.businesses.GetByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("business profile")
		}
		return nil, util.NewInternalError(err)
	}
	return profile, nil
}

// GetListing returns one business joined with its category and provider.
func (s *BusinessService) GetListing(ctx context.Context, businessID string) (*repository.BusinessListing, error) {
	listing, err := s.businesses.GetListing(ctx, businessID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("business")
		}
		return nil, util.NewInternalError(err)
	}
	return listing, nil
}

// List returns all businesses for browsing.
func (s *BusinessService) List(ctx context.Context) ([]repository.BusinessListing, error) {
	listings, err := s.businesses.List(ctx)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return listings, nil
}

// SetVerified flips a business's verification flag. Admin only, enforced at
// the route.
func (s *BusinessService) SetVerified(ctx context.Context, actor events.Actor, businessID string, verified bool) (*domain.BusinessProfile, error) {
	if err := s.businesses.SetVerified(ctx, businessID, verified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("business")
		}
		return nil, util.NewInternalError(err)
	}
	profile, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventBusinessVerified,
		Actor: actor,
		Payload: events.BusinessVerifiedPayload{
			BusinessID: businessID,
			Verified:   verified,
		},
	})
	return profile, nil
}

// DeleteProfile removes the provider's own business.
func (s *BusinessService) DeleteProfile(ctx context.Context, providerID, businessID string) error {
	if err := s.businesses.DeleteForProvider(ctx, businessID, providerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("business")
		}
		return util.NewInternalError(err)
	}
	return nil
}

// AddSlot appends one slot template to the provider's business.
func (s *BusinessService) AddSlot(ctx context.Context, providerID string, start, end domain.TimeOfDay) (*domain.Slot, error) {
	business, err := s.GetMine(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, util.NewValidationError("slot end must be after start", map[string]any{
			"start": start.String(),
			"end":   end.String(),
		})
	}

	slot := &domain.Slot{BusinessID: business.ID, Start: start, End: end}
	if err := s.slots.Create(ctx, slot); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("a slot already starts at this time", map[string]any{"start": start.String()})
		}
		return nil, util.NewInternalError(err)
	}
	return slot, nil
}

// DeleteSlot removes a slot template the provider owns.
func (s *BusinessService) DeleteSlot(ctx context.Context, providerID, slotID string) error {
	business, err := s.GetMine(ctx, providerID)
	if err != nil {
		return err
	}
	if err := s.slots.DeleteForBusiness(ctx, slotID, business.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("slot")
		}
		return util.NewInternalError(err)
	}
	return nil
}

// ListSlots returns the provider's own slot templates.
func (s *BusinessService) ListSlots(ctx context.Context, providerID string) ([]domain.Slot, error) {
	business, err := s.GetMine(ctx, providerID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return slots, nil
}

// ListSlotsPublic returns a business's slots to customers. Unverified
// businesses are not bookable, so their slots stay hidden.
func (s *BusinessService) ListSlotsPublic(ctx context.Context, businessID string) ([]domain.Slot, error) {
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("business")
		}
		return nil, util.NewInternalError(err)
	}
	if !business.Verified {
		return nil, util.NewForbidden("business is not verified yet")
	}
	slots, err := s.slots.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return slots, nil
}

// GenerateSlots bulk-creates slot templates from working hours, skipping any
// interval that overlaps the break window. Existing slots at the same start
// are left untouched.
func (s *BusinessService) GenerateSlots(ctx context.Context, providerID string, input SlotGenerationInput) ([]domain.Slot, error) {
	business, err := s.GetMine(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if input.IntervalMinutes <= 0 {
		return nil, util.NewValidationError("interval must be positive", nil)
	}
	if input.CloseTime <= input.OpenTime {
		return nil, util.NewValidationError("close time must be after open time", nil)
	}
	if (input.BreakStart == nil) != (input.BreakEnd == nil) {
		return nil, util.NewValidationError("break start and end must be set together", nil)
	}
	if input.BreakStart != nil && *input.BreakEnd <= *input.BreakStart {
		return nil, util.NewValidationError("break end must be after break start", nil)
	}

	interval := domain.TimeOfDay(input.IntervalMinutes)
	var created []domain.Slot
	for start := input.OpenTime; start+interval <= input.CloseTime; start += interval {
		end := start + interval
		if input.BreakStart != nil && start < *input.BreakEnd && end > *input.BreakStart {
			continue
		}
		slot := domain.Slot{BusinessID: business.ID, Start: start, End: end}
		inserted, err := s.slots.CreateIgnoreDuplicate(ctx, &slot)
		if err != nil {
			return nil, util.NewInternalError(err)
		}
		if inserted {
			created = append(created, slot)
		}
	}
	return created, nil
}

func (s *BusinessService) validateInput(ctx context.Context, input BusinessInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return util.NewValidationError("business name is required", nil)
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return util.NewNotFound("category")
			}
			return util.NewInternalError(err)
		}
	}
	return nil
}

func (s *BusinessService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
