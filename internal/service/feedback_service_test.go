package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/internal/service"
)

type stubFeedbackRepo struct {
	entries map[string]*domain.Feedback
	nextID  int
}

func newStubFeedbackRepo() *stubFeedbackRepo {
	return &stubFeedbackRepo{entries: map[string]*domain.Feedback{}}
}

func (s *stubFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	s.nextID++
	feedback.ID = fmt.Sprintf("fbk-%d", s.nextID)
	feedback.CreatedAt = time.Now()
	clone := *feedback
	s.entries[feedback.ID] = &clone
	return nil
}

func (s *stubFeedbackRepo) ExistsByBooking(_ context.Context, bookingID string) (bool, error) {
	for _, entry := range s.entries {
		if entry.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubFeedbackRepo) AggregateByService(_ context.Context, serviceID string) (repository.ServiceRatingAggregate, error) {
	var sum float64
	var count int
	for _, entry := range s.entries {
		if entry.ServiceID == serviceID {
			sum += entry.Rating
			count++
		}
	}
	if count == 0 {
		return repository.ServiceRatingAggregate{}, nil
	}
	return repository.ServiceRatingAggregate{Mean: sum / float64(count), Count: count}, nil
}

func (s *stubFeedbackRepo) ListByService(_ context.Context, serviceID string) ([]repository.FeedbackEntry, error) {
	var result []repository.FeedbackEntry
	for _, entry := range s.entries {
		if entry.ServiceID == serviceID {
			result = append(result, repository.FeedbackEntry{Feedback: *entry})
		}
	}
	return result, nil
}

func (s *stubFeedbackRepo) ListByBusiness(_ context.Context, businessID string) ([]repository.FeedbackEntry, error) {
	return nil, pgx.ErrNoRows
}

type feedbackFixture struct {
	svc      *service.FeedbackService
	feedback *stubFeedbackRepo
	bookings *stubBookingRepo
	services *stubServiceRepo

	customerID string
	serviceID  string
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()

	f := &feedbackFixture{
		feedback:   newStubFeedbackRepo(),
		bookings:   newStubBookingRepo(),
		services:   newStubServiceRepo(),
		customerID: "customer-1",
	}

	offering := &domain.Service{BusinessID: "biz-1", Name: "Deep clean", Price: 500, DurationMinutes: 60, Active: true}
	require.NoError(t, f.services.Create(context.Background(), offering))
	f.serviceID = offering.ID

	f.svc = service.NewFeedbackService(service.FeedbackDependencies{
		FeedbackRepo: f.feedback,
		BookingRepo:  f.bookings,
		ServiceRepo:  f.services,
	})
	return f
}

func (f *feedbackFixture) addBooking(t *testing.T, customerID string, status domain.BookingStatus) string {
	t.Helper()
	booking := &domain.Booking{
		Reference:  "BKG-TEST",
		CustomerID: customerID,
		BusinessID: "biz-1",
		ServiceID:  f.serviceID,
		SlotID:     "slot-1",
		AddressID:  "addr-1",
		Date:       time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status:     status,
		TotalPrice: 500,
	}
	require.NoError(t, f.bookings.Create(context.Background(), booking))
	return booking.ID
}

func TestSubmitFeedbackUpdatesServiceAggregate(t *testing.T) {
	f := newFeedbackFixture(t)

	first := f.addBooking(t, f.customerID, domain.BookingStatusCompleted)
	second := f.addBooking(t, f.customerID, domain.BookingStatusCompleted)

	_, err := f.svc.Submit(context.Background(), f.customerID, service.FeedbackInput{BookingID: first, Rating: 5})
	require.NoError(t, err)
	_, err = f.svc.Submit(context.Background(), f.customerID, service.FeedbackInput{BookingID: second, Rating: 4})
	require.NoError(t, err)

	offering, err := f.services.GetByID(context.Background(), f.serviceID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, offering.Rating, 0.001)
	assert.Equal(t, 2, offering.ReviewCount)
}

func TestSubmitFeedbackOncePerBooking(t *testing.T) {
	f := newFeedbackFixture(t)
	bookingID := f.addBooking(t, f.customerID, domain.BookingStatusCompleted)

	_, err := f.svc.Submit(context.Background(), f.customerID, service.FeedbackInput{BookingID: bookingID, Rating: 4})
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), f.customerID, service.FeedbackInput{BookingID: bookingID, Rating: 2})
	requireDomainCode(t, err, "CONFLICT")
}

func TestSubmitFeedbackRequiresCompletedBooking(t *testing.T) {
	f := newFeedbackFixture(t)

	for _, status := range []domain.BookingStatus{
		domain.BookingStatusPending,
		domain.BookingStatusConfirmed,
		domain.BookingStatusCancelled,
	} {
		bookingID := f.addBooking(t, f.customerID, status)
		_, err := f.svc.Submit(context.Background(), f.customerID, service.FeedbackInput{BookingID: bookingID, Rating: 4})
		requireDomainCode(t, err, "CONFLICT")
	}
}

func TestSubmitFeedbackRequiresOwnership(t *testing.T) {
	f := newFeedbackFixture(t)
	bookingID := f.addBooking(t, "someone-else", domain.BookingStatusCompleted)

	_, err := f.svc.Submit(context.Background(), f.customerID, service.FeedbackInput{BookingID: bookingID, Rating: 4})
	requireDomainCode(t, err, "FORBIDDEN")
}

func TestSubmitFeedbackValidatesRating(t *testing.T) {
	f := newFeedbackFixture(t)
	bookingID := f.addBooking(t, f.customerID, domain.BookingStatusCompleted)

	for _, rating := range []float64{0, 0.5, 5.5, -1} {
		_, err := f.svc.Submit(context.Background(), f.customerID, service.FeedbackInput{BookingID: bookingID, Rating: rating})
		requireDomainCode(t, err, "VALIDATION_FAILED")
	}
}
