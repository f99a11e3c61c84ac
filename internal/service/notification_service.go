package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservice/internal/events"
	"github.com/spec-kit/homeservice/internal/mailer"
	"github.com/spec-kit/homeservice/internal/repository"
)

// NotificationService reacts to domain events with emails and logs. Email
// failures never fail the triggering request.
type NotificationService struct {
	dispatcher events.Dispatcher
	bookings   repository.BookingRepository
	users      repository.UserRepository
	mail       mailer.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, bookings repository.BookingRepository, users repository.UserRepository, mail mailer.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		bookings:   bookings,
		users:      users,
		mail:       mail,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBookingCreated, n.handleBookingCreated)
	n.dispatcher.Subscribe(events.EventBookingStatusChanged, n.handleBookingStatusChanged)
	n.dispatcher.Subscribe(events.EventBusinessVerified, n.handleBusinessVerified)
	n.dispatcher.Subscribe(events.EventFeedbackSubmitted, n.handleFeedbackSubmitted)
}

func (n *NotificationService) handleBookingCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("BookingCreated", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleBookingStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingStatusChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("BookingStatusChanged",
		zap.String("booking_id", payload.BookingID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))

	email, err := n.customerEmail(ctx, payload.BookingID)
	if err != nil {
		n.logger.Warn("could not resolve booking customer", zap.String("booking_id", payload.BookingID), zap.Error(err))
		return nil
	}
	if err := n.mail.SendBookingStatusUpdate(ctx, email, payload.Reference, string(payload.NewStatus)); err != nil {
		n.logger.Warn("booking status email failed", zap.String("booking_id", payload.BookingID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleBusinessVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("BusinessVerified", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleFeedbackSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("FeedbackSubmitted", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) customerEmail(ctx context.Context, bookingID string) (string, error) {
	booking, err := n.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	user, err := n.users.GetByID(ctx, booking.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.New("customer no longer exists")
		}
		return "", err
	}
	return user.Email, nil
}
