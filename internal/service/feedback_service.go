package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/events"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// FeedbackService accepts ratings for completed bookings and keeps the
// aggregate on the service row.
type FeedbackService struct {
	feedback   repository.FeedbackRepository
	bookings   repository.BookingRepository
	services   repository.ServiceRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// FeedbackDependencies bundles collaborators for the feedback service.
type FeedbackDependencies struct {
	FeedbackRepo repository.FeedbackRepository
	BookingRepo  repository.BookingRepository
	ServiceRepo  repository.ServiceRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// FeedbackInput describes a rating submission.
type FeedbackInput struct {
	BookingID string
	Rating    float64
	Comments  *string
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		feedback:   deps.FeedbackRepo,
		bookings:   deps.BookingRepo,
		services:   deps.ServiceRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Submit records feedback for a completed booking the customer owns, at
// most once per booking, then recomputes the service's rating aggregate.
func (s *FeedbackService) Submit(ctx context.Context, customerID string, input FeedbackInput) (*domain.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, util.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": input.Rating})
	}

	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("booking")
		}
		return nil, util.NewInternalError(err)
	}
	if booking.CustomerID != customerID {
		return nil, util.NewForbidden("booking belongs to another customer")
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, util.NewConflict("feedback is only accepted for completed bookings", map[string]any{
			"status": booking.Status,
		})
	}

	exists, err := s.feedback.ExistsByBooking(ctx, booking.ID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if exists {
		return nil, util.NewConflict("feedback already submitted for this booking", nil)
	}

	entry := &domain.Feedback{
		BookingID:  booking.ID,
		ServiceID:  booking.ServiceID,
		CustomerID: customerID,
		Rating:     input.Rating,
		Comments:   input.Comments,
	}
	if err := s.feedback.Create(ctx, entry); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("feedback already submitted for this booking", nil)
		}
		return nil, util.NewInternalError(err)
	}

	if err := s.refreshServiceRating(ctx, booking.ServiceID); err != nil {
		s.logger.Warn("failed to refresh service rating",
			zap.String("service_id", booking.ServiceID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:  events.EventFeedbackSubmitted,
		Actor: events.Actor{UserID: customerID, Role: domain.RoleCustomer},
		Payload: events.FeedbackSubmittedPayload{
			FeedbackID: entry.ID,
			BookingID:  entry.BookingID,
			ServiceID:  entry.ServiceID,
			Rating:     entry.Rating,
		},
	})
	return entry, nil
}

// ListByService returns a service's reviews with the authoring customers.
func (s *FeedbackService) ListByService(ctx context.Context, serviceID string) ([]repository.FeedbackEntry, error) {
	entries, err := s.feedback.ListByService(ctx, serviceID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return entries, nil
}

// ListByBusiness returns all reviews across a business's services.
func (s *FeedbackService) ListByBusiness(ctx context.Context, businessID string) ([]repository.FeedbackEntry, error) {
	entries, err := s.feedback.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return entries, nil
}

func (s *FeedbackService) refreshServiceRating(ctx context.Context, serviceID string) error {
	agg, err := s.feedback.AggregateByService(ctx, serviceID)
	if err != nil {
		return err
	}
	rounded := math.Round(agg.Mean*100) / 100
	return s.services.UpdateRating(ctx, serviceID, rounded, agg.Count)
}

func (s *FeedbackService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	_ = s.dispatcher.Publish(ctx, event)
}
