package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservice/internal/config"
	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/service"
)

type bookingFixture struct {
	svc       *service.BookingService
	bookings  *stubBookingRepo
	slots     *stubSlotRepo
	services  *stubServiceRepo
	business  *stubBusinessRepo
	addresses *stubAddressRepo

	customerID string
	providerID string
	businessID string
	serviceID  string
	slotID     string
	addressID  string
}

// newBookingFixture wires a verified business with one 500-cent service, one
// 10:00-11:00 slot and one customer address. The clock is pinned to
// 2025-06-02 09:00 UTC.
func newBookingFixture(t *testing.T, cfg config.BookingConfig) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		bookings:   newStubBookingRepo(),
		slots:      newStubSlotRepo(),
		services:   newStubServiceRepo(),
		business:   newStubBusinessRepo(),
		addresses:  newStubAddressRepo(),
		customerID: "customer-1",
		providerID: "provider-1",
	}

	profile := &domain.BusinessProfile{ProviderID: f.providerID, Name: "Sparkle Cleaning", Verified: true}
	require.NoError(t, f.business.Create(context.Background(), profile))
	f.businessID = profile.ID

	offering := &domain.Service{BusinessID: f.businessID, Name: "Deep clean", Price: 500, DurationMinutes: 60, Active: true}
	require.NoError(t, f.services.Create(context.Background(), offering))
	f.serviceID = offering.ID

	slot := &domain.Slot{BusinessID: f.businessID, Start: 600, End: 660}
	require.NoError(t, f.slots.Create(context.Background(), slot))
	f.slotID = slot.ID

	address := &domain.Address{UserID: f.customerID, Type: domain.AddressTypeHome, Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
	require.NoError(t, f.addresses.Create(context.Background(), address))
	f.addressID = address.ID

	f.svc = service.NewBookingService(service.BookingDependencies{
		BookingRepo:  f.bookings,
		SlotRepo:     f.slots,
		ServiceRepo:  f.services,
		BusinessRepo: f.business,
		AddressRepo:  f.addresses,
		Config:       cfg,
		Now: func() time.Time {
			return time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
		},
	})
	return f
}

func (f *bookingFixture) createInput(date time.Time) service.BookingCreateInput {
	return service.BookingCreateInput{
		ServiceID: f.serviceID,
		SlotID:    f.slotID,
		AddressID: f.addressID,
		Date:      date,
	}
}

func tomorrow() time.Time {
	return time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
}

func TestCreateBookingCapturesPrice(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	booking, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, int64(500), booking.TotalPrice)
	assert.NotEmpty(t, booking.Reference)

	// A later price change must not affect the captured total.
	offering, err := f.services.GetByID(context.Background(), f.serviceID)
	require.NoError(t, err)
	offering.Price = 700
	require.NoError(t, f.services.Update(context.Background(), offering))

	stored, err := f.bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), stored.TotalPrice)
}

func TestCreateBookingRejectsPastDate(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	past := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.Create(context.Background(), f.customerID, f.createInput(past))
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateBookingRejectsElapsedStartToday(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	// Clock is 09:00; an 08:00 slot has already started today.
	early := &domain.Slot{BusinessID: f.businessID, Start: 480, End: 540}
	require.NoError(t, f.slots.Create(context.Background(), early))

	input := f.createInput(time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC))
	input.SlotID = early.ID
	_, err := f.svc.Create(context.Background(), f.customerID, input)
	requireDomainCode(t, err, "VALIDATION_FAILED")

	// The 10:00 slot is still bookable today.
	input.SlotID = f.slotID
	_, err = f.svc.Create(context.Background(), f.customerID, input)
	require.NoError(t, err)
}

func TestCreateBookingRejectsForeignAddress(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	other := &domain.Address{UserID: "someone-else", Type: domain.AddressTypeHome, Street: "2 Oak", City: "X", State: "Y", ZipCode: "1"}
	require.NoError(t, f.addresses.Create(context.Background(), other))

	input := f.createInput(tomorrow())
	input.AddressID = other.ID
	_, err := f.svc.Create(context.Background(), f.customerID, input)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestCreateBookingRejectsUnverifiedBusiness(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	profile, err := f.business.GetByID(context.Background(), f.businessID)
	require.NoError(t, err)
	profile.Verified = false
	require.NoError(t, f.business.Update(context.Background(), profile))

	_, err = f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	requireDomainCode(t, err, "FORBIDDEN")
}

func TestCreateBookingRejectsSlotFromAnotherBusiness(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	otherBiz := &domain.BusinessProfile{ProviderID: "provider-2", Name: "Other", Verified: true}
	require.NoError(t, f.business.Create(context.Background(), otherBiz))
	foreignSlot := &domain.Slot{BusinessID: otherBiz.ID, Start: 600, End: 660}
	require.NoError(t, f.slots.Create(context.Background(), foreignSlot))

	input := f.createInput(tomorrow())
	input.SlotID = foreignSlot.ID
	_, err := f.svc.Create(context.Background(), f.customerID, input)
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateBookingSlotDayConflict(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	_, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)

	// Same slot, same day: conflict.
	_, err = f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	requireDomainCode(t, err, "CONFLICT")

	// Same slot, another day: fine.
	dayAfter := time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC)
	_, err = f.svc.Create(context.Background(), f.customerID, f.createInput(dayAfter))
	require.NoError(t, err)
}

func TestCreateBookingCancelledSlotIsReusable(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	booking, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), f.customerID, booking.ID)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)
}

func TestProviderTransitions(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	booking, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)

	// Completing a pending booking skips a state.
	_, err = f.svc.Complete(context.Background(), f.providerID, booking.ID)
	requireDomainCode(t, err, "CONFLICT")

	accepted, err := f.svc.Accept(context.Background(), f.providerID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, accepted.Status)

	// Accepting twice is a state conflict.
	_, err = f.svc.Accept(context.Background(), f.providerID, booking.ID)
	requireDomainCode(t, err, "CONFLICT")

	// Rejecting a confirmed booking is not allowed.
	_, err = f.svc.Reject(context.Background(), f.providerID, booking.ID)
	requireDomainCode(t, err, "CONFLICT")

	completed, err := f.svc.Complete(context.Background(), f.providerID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, completed.Status)
}

func TestTransitionsRequireOwningProvider(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	booking, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)

	otherBiz := &domain.BusinessProfile{ProviderID: "provider-2", Name: "Other", Verified: true}
	require.NoError(t, f.business.Create(context.Background(), otherBiz))

	_, err = f.svc.Accept(context.Background(), "provider-2", booking.ID)
	requireDomainCode(t, err, "FORBIDDEN")

	_, err = f.svc.Accept(context.Background(), f.providerID, "missing")
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestCompleteRequiresElapsedWhenConfigured(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{CompletionRequiresElapsed: true})

	booking, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)
	_, err = f.svc.Accept(context.Background(), f.providerID, booking.ID)
	require.NoError(t, err)

	// Tomorrow's slot has not elapsed at the pinned clock.
	_, err = f.svc.Complete(context.Background(), f.providerID, booking.ID)
	requireDomainCode(t, err, "CONFLICT")
}

func TestCustomerCancelOwnership(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	booking, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), "customer-2", booking.ID)
	requireDomainCode(t, err, "FORBIDDEN")

	cancelled, err := f.svc.Cancel(context.Background(), f.customerID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
}

func TestCompleteElapsedSweep(t *testing.T) {
	f := newBookingFixture(t, config.BookingConfig{})

	booking, err := f.svc.Create(context.Background(), f.customerID, f.createInput(tomorrow()))
	require.NoError(t, err)
	_, err = f.svc.Accept(context.Background(), f.providerID, booking.ID)
	require.NoError(t, err)

	// Backdate the booking so the sweep picks it up.
	stored, err := f.bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	stored.Date = time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC)
	f.bookings.bookings[booking.ID] = stored

	count, err := f.svc.CompleteElapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	after, err := f.bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, after.Status)
}
