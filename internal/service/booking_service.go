package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservice/internal/config"
	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/events"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// BookingService coordinates the booking lifecycle.
type BookingService struct {
	bookings   repository.BookingRepository
	slots      repository.SlotRepository
	services   repository.ServiceRepository
	businesses repository.BusinessRepository
	addresses  repository.AddressRepository
	dispatcher events.Dispatcher
	cfg        config.BookingConfig
	logger     *zap.Logger
	now        func() time.Time
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	BookingRepo  repository.BookingRepository
	SlotRepo     repository.SlotRepository
	ServiceRepo  repository.ServiceRepository
	BusinessRepo repository.BusinessRepository
	AddressRepo  repository.AddressRepository
	Dispatcher   events.Dispatcher
	Config       config.BookingConfig
	Logger       *zap.Logger
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// BookingCreateInput describes a booking request.
type BookingCreateInput struct {
	ServiceID string
	SlotID    string
	AddressID string
	Date      time.Time
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookings:   deps.BookingRepo,
		slots:      deps.SlotRepo,
		services:   deps.ServiceRepo,
		businesses: deps.BusinessRepo,
		addresses:  deps.AddressRepo,
		dispatcher: deps.Dispatcher,
		cfg:        deps.Config,
		logger:     logger,
		now:        now,
	}
}

// Create books a slot for a customer. Checks run in a fixed order so the
// caller always sees the same failure for the same request: address
// ownership, service existence, business verification, slot existence,
// date rules, slot/service pairing, then the availability check. The
// price is captured from the service at creation time.
func (s *BookingService) Create(ctx context.Context, customerID string, input BookingCreateInput) (*domain.Booking, error) {
	if _, err := s.addresses.GetForUser(ctx, input.AddressID, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("address")
		}
		return nil, util.NewInternalError(err)
	}

	offering, err := s.services.GetByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("service")
		}
		return nil, util.NewInternalError(err)
	}
	if !offering.Active {
		return nil, util.NewNotFound("service")
	}

	business, err := s.businesses.GetByID(ctx, offering.BusinessID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("business")
		}
		return nil, util.NewInternalError(err)
	}
	if !business.Verified {
		return nil, util.NewForbidden("business is not verified yet")
	}

	slot, err := s.slots.GetByID(ctx, input.SlotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("slot")
		}
		return nil, util.NewInternalError(err)
	}

	now := s.now()
	today := truncateToDay(now)
	date := truncateToDay(input.Date)
	if date.Before(today) {
		return nil, util.NewValidationError("booking date cannot be in the past", map[string]any{
			"date": date.Format("2006-01-02"),
		})
	}
	if date.Equal(today) && slot.Start.Minutes() <= minuteOfDay(now) {
		return nil, util.NewValidationError("slot start time has already passed today", map[string]any{
			"slot_start": slot.Start.String(),
		})
	}

	if slot.BusinessID != offering.BusinessID {
		return nil, util.NewValidationError("slot does not belong to the service's business", nil)
	}

	taken, err := s.bookings.ExistsLiveForSlotDate(ctx, slot.ID, date)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if taken {
		return nil, util.NewConflict("slot is already booked for this date", map[string]any{
			"slot_id": slot.ID,
			"date":    date.Format("2006-01-02"),
		})
	}

	booking := &domain.Booking{
		Reference:  generateBookingReference(),
		CustomerID: customerID,
		BusinessID: offering.BusinessID,
		ServiceID:  offering.ID,
		SlotID:     slot.ID,
		AddressID:  input.AddressID,
		Date:       date,
		Status:     domain.BookingStatusPending,
		TotalPrice: offering.Price,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		// Two requests can pass the availability check together; the
		// partial unique index settles the race.
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("slot is already booked for this date", map[string]any{
				"slot_id": slot.ID,
				"date":    date.Format("2006-01-02"),
			})
		}
		return nil, util.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventBookingCreated,
		Actor: events.Actor{UserID: customerID, Role: domain.RoleCustomer},
		Payload: events.BookingCreatedPayload{
			BookingID:  booking.ID,
			Reference:  booking.Reference,
			BusinessID: booking.BusinessID,
			ServiceID:  booking.ServiceID,
			Date:       booking.Date,
			TotalPrice: booking.TotalPrice,
		},
	})
	return booking, nil
}

// Accept confirms a pending booking. Provider only.
func (s *BookingService) Accept(ctx context.Context, providerID, bookingID string) (*domain.Booking, error) {
	return s.transitionAsProvider(ctx, providerID, bookingID, domain.BookingStatusConfirmed, nil)
}

// Reject cancels a pending booking. Provider only; no side effects beyond
// the status change.
func (s *BookingService) Reject(ctx context.Context, providerID, bookingID string) (*domain.Booking, error) {
	return s.transitionAsProvider(ctx, providerID, bookingID, domain.BookingStatusCancelled, nil)
}

// Complete marks a confirmed booking done. Provider only. When configured,
// completion is refused until the slot's end time has passed.
func (s *BookingService) Complete(ctx context.Context, providerID, bookingID string) (*domain.Booking, error) {
	var guard func(context.Context, *domain.Booking) error
	if s.cfg.CompletionRequiresElapsed {
		guard = s.requireElapsed
	}
	return s.transitionAsProvider(ctx, providerID, bookingID, domain.BookingStatusCompleted, guard)
}

// Cancel cancels a pending booking on behalf of the customer who made it.
func (s *BookingService) Cancel(ctx context.Context, customerID, bookingID string) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, util.NewForbidden("booking belongs to another customer")
	}
	return s.applyTransition(ctx, booking, domain.BookingStatusCancelled,
		events.Actor{UserID: customerID, Role: domain.RoleCustomer})
}

// GetForParticipant fetches a booking visible to its customer or the owning
// provider.
func (s *BookingService) GetForParticipant(ctx context.Context, userID string, role domain.Role, bookingID string) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch role {
	case domain.RoleAdmin:
		return booking, nil
	case domain.RoleCustomer:
		if booking.CustomerID != userID {
			return nil, util.NewForbidden("booking belongs to another customer")
		}
	case domain.RoleProvider:
		business, err := s.businesses.GetByProviderID(ctx, userID)
		if err != nil || business.ID != booking.BusinessID {
			return nil, util.NewForbidden("booking belongs to another business")
		}
	}
	return booking, nil
}

// ListForCustomer returns the customer's bookings with joined details.
func (s *BookingService) ListForCustomer(ctx context.Context, customerID string) ([]repository.BookingDetail, error) {
	details, err := s.bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return details, nil
}

// ListForProvider returns the bookings of the provider's business with
// joined details.
func (s *BookingService) ListForProvider(ctx context.Context, providerID string) ([]repository.BookingDetail, error) {
	business, err := s.businesses.GetByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("business profile")
		}
		return nil, util.NewInternalError(err)
	}
	details, err := s.bookings.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return details, nil
}

// CompleteElapsed moves confirmed bookings whose slot has ended into
// completed. Invoked by the scheduled sweep.
func (s *BookingService) CompleteElapsed(ctx context.Context) (int, error) {
	now := s.now()
	elapsed, err := s.bookings.ListElapsedConfirmed(ctx, truncateToDay(now), minuteOfDay(now))
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range elapsed {
		booking := &elapsed[i]
		if _, err := s.applyTransition(ctx, booking, domain.BookingStatusCompleted, events.Actor{}); err != nil {
			s.logger.Warn("auto-complete failed", zap.String("booking_id", booking.ID), zap.Error(err))
			continue
		}
		completed++
	}
	return completed, nil
}

func (s *BookingService) transitionAsProvider(ctx context.Context, providerID, bookingID string, next domain.BookingStatus, guard func(context.Context, *domain.Booking) error) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	business, err := s.businesses.GetByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewForbidden("booking belongs to another business")
		}
		return nil, util.NewInternalError(err)
	}
	if business.ID != booking.BusinessID {
		return nil, util.NewForbidden("booking belongs to another business")
	}
	if guard != nil {
		if err := guard(ctx, booking); err != nil {
			return nil, err
		}
	}
	return s.applyTransition(ctx, booking, next, events.Actor{UserID: providerID, Role: domain.RoleProvider})
}

func (s *BookingService) applyTransition(ctx context.Context, booking *domain.Booking, next domain.BookingStatus, actor events.Actor) (*domain.Booking, error) {
	if !domain.CanTransition(booking.Status, next) {
		return nil, util.NewConflict("invalid booking status transition", map[string]any{
			"current": booking.Status,
			"next":    next,
		})
	}
	if err := s.bookings.UpdateStatus(ctx, booking.ID, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("booking")
		}
		return nil, util.NewInternalError(err)
	}

	old := booking.Status
	booking.Status = next
	s.publish(ctx, events.Event{
		Type:  events.EventBookingStatusChanged,
		Actor: actor,
		Payload: events.BookingStatusChangedPayload{
			BookingID: booking.ID,
			Reference: booking.Reference,
			OldStatus: old,
			NewStatus: next,
		},
	})
	return booking, nil
}

func (s *BookingService) requireElapsed(ctx context.Context, booking *domain.Booking) error {
	slot, err := s.slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return util.NewInternalError(err)
	}
	now := s.now()
	today := truncateToDay(now)
	date := truncateToDay(booking.Date)
	if date.After(today) || (date.Equal(today) && slot.End.Minutes() > minuteOfDay(now)) {
		return util.NewConflict("booking slot has not finished yet", map[string]any{
			"slot_end": slot.End.String(),
		})
	}
	return nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("booking")
		}
		return nil, util.NewInternalError(err)
	}
	return booking, nil
}

func (s *BookingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func generateBookingReference() string {
	return "BKG-" + strings.ToUpper(uuid.NewString()[:8])
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
