package service_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/events"
	"github.com/spec-kit/homeservice/internal/service"
)

type businessFixture struct {
	svc        *service.BusinessService
	businesses *stubBusinessRepo
	slots      *stubSlotRepo
}

func newBusinessFixture(t *testing.T) *businessFixture {
	t.Helper()

	f := &businessFixture{
		businesses: newStubBusinessRepo(),
		slots:      newStubSlotRepo(),
	}
	f.svc = service.NewBusinessService(service.BusinessDependencies{
		BusinessRepo: f.businesses,
		SlotRepo:     f.slots,
	})
	return f
}

func (f *businessFixture) createProfile(t *testing.T, providerID string) *domain.BusinessProfile {
	t.Helper()
	profile, err := f.svc.CreateProfile(context.Background(), providerID, service.BusinessInput{
		Name:  "Sparkle Cleaning",
		Phone: "555-0100",
		State: "IL",
		City:  "Springfield",
	})
	require.NoError(t, err)
	return profile
}

func adminActor() events.Actor {
	return events.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
}

func mustTime(t *testing.T, value string) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.ParseTimeOfDay(value)
	require.NoError(t, err)
	return tod
}

func TestCreateProfileOncePerProvider(t *testing.T) {
	f := newBusinessFixture(t)
	f.createProfile(t, "provider-1")

	_, err := f.svc.CreateProfile(context.Background(), "provider-1", service.BusinessInput{Name: "Second"})
	requireDomainCode(t, err, "CONFLICT")

	// Another provider is unaffected.
	_, err = f.svc.CreateProfile(context.Background(), "provider-2", service.BusinessInput{Name: "Other"})
	require.NoError(t, err)
}

func TestCreateProfileRequiresName(t *testing.T) {
	f := newBusinessFixture(t)

	_, err := f.svc.CreateProfile(context.Background(), "provider-1", service.BusinessInput{Name: "   "})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestAddSlotRejectsInvertedWindow(t *testing.T) {
	f := newBusinessFixture(t)
	f.createProfile(t, "provider-1")

	_, err := f.svc.AddSlot(context.Background(), "provider-1", mustTime(t, "11:00"), mustTime(t, "10:00"))
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.AddSlot(context.Background(), "provider-1", mustTime(t, "10:00"), mustTime(t, "10:00"))
	requireDomainCode(t, err, "VALIDATION_FAILED")

	slot, err := f.svc.AddSlot(context.Background(), "provider-1", mustTime(t, "10:00"), mustTime(t, "11:00"))
	require.NoError(t, err)
	assert.Equal(t, 600, slot.Start.Minutes())
}

func TestAddSlotRequiresProfile(t *testing.T) {
	f := newBusinessFixture(t)

	_, err := f.svc.AddSlot(context.Background(), "provider-1", mustTime(t, "10:00"), mustTime(t, "11:00"))
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestListSlotsPublicHidesUnverified(t *testing.T) {
	f := newBusinessFixture(t)
	profile := f.createProfile(t, "provider-1")
	_, err := f.svc.AddSlot(context.Background(), "provider-1", mustTime(t, "10:00"), mustTime(t, "11:00"))
	require.NoError(t, err)

	_, err = f.svc.ListSlotsPublic(context.Background(), profile.ID)
	requireDomainCode(t, err, "FORBIDDEN")

	require.NoError(t, f.businesses.SetVerified(context.Background(), profile.ID, true))

	slots, err := f.svc.ListSlotsPublic(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestGenerateSlotsSkipsBreak(t *testing.T) {
	f := newBusinessFixture(t)
	f.createProfile(t, "provider-1")

	breakStart := mustTime(t, "12:00")
	breakEnd := mustTime(t, "13:00")
	created, err := f.svc.GenerateSlots(context.Background(), "provider-1", service.SlotGenerationInput{
		OpenTime:        mustTime(t, "09:00"),
		CloseTime:       mustTime(t, "17:00"),
		BreakStart:      &breakStart,
		BreakEnd:        &breakEnd,
		IntervalMinutes: 60,
	})
	require.NoError(t, err)

	var starts []string
	for _, slot := range created {
		starts = append(starts, slot.Start.String())
	}
	sort.Strings(starts)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}, starts)
}

func TestGenerateSlotsIsIdempotent(t *testing.T) {
	f := newBusinessFixture(t)
	f.createProfile(t, "provider-1")

	input := service.SlotGenerationInput{
		OpenTime:        mustTime(t, "09:00"),
		CloseTime:       mustTime(t, "12:00"),
		IntervalMinutes: 60,
	}
	created, err := f.svc.GenerateSlots(context.Background(), "provider-1", input)
	require.NoError(t, err)
	assert.Len(t, created, 3)

	again, err := f.svc.GenerateSlots(context.Background(), "provider-1", input)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestGenerateSlotsValidatesWindow(t *testing.T) {
	f := newBusinessFixture(t)
	f.createProfile(t, "provider-1")

	_, err := f.svc.GenerateSlots(context.Background(), "provider-1", service.SlotGenerationInput{
		OpenTime:        mustTime(t, "17:00"),
		CloseTime:       mustTime(t, "09:00"),
		IntervalMinutes: 60,
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.GenerateSlots(context.Background(), "provider-1", service.SlotGenerationInput{
		OpenTime:        mustTime(t, "09:00"),
		CloseTime:       mustTime(t, "17:00"),
		IntervalMinutes: 0,
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")

	breakStart := mustTime(t, "12:00")
	_, err = f.svc.GenerateSlots(context.Background(), "provider-1", service.SlotGenerationInput{
		OpenTime:        mustTime(t, "09:00"),
		CloseTime:       mustTime(t, "17:00"),
		BreakStart:      &breakStart,
		IntervalMinutes: 60,
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestSetVerifiedReturnsProfile(t *testing.T) {
	f := newBusinessFixture(t)
	profile := f.createProfile(t, "provider-1")

	updated, err := f.svc.SetVerified(context.Background(), adminActor(), profile.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Verified)

	_, err = f.svc.SetVerified(context.Background(), adminActor(), "missing", true)
	requireDomainCode(t, err, "NOT_FOUND")
}
