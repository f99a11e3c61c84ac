package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// The stubs below are plain in-memory implementations of the repository
// interfaces. They return pgx.ErrNoRows for missing rows the way the real
// Postgres repositories do.

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	s.nextID++
	user.ID = fmt.Sprintf("user-%d", s.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	for _, user := range s.users {
		if user.Email == email || user.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	var result []domain.User
	for _, user := range s.users {
		result = append(result, *user)
	}
	return result, nil
}

func (s *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.users, id)
	return nil
}

type stubAddressRepo struct {
	addresses map[string]*domain.Address
	nextID    int
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{addresses: map[string]*domain.Address{}}
}

func (s *stubAddressRepo) Create(_ context.Context, address *domain.Address) error {
	s.nextID++
	address.ID = fmt.Sprintf("addr-%d", s.nextID)
	address.CreatedAt = time.Now()
	clone := *address
	s.addresses[address.ID] = &clone
	return nil
}

func (s *stubAddressRepo) Update(_ context.Context, address *domain.Address) error {
	existing, ok := s.addresses[address.ID]
	if !ok || existing.UserID != address.UserID {
		return pgx.ErrNoRows
	}
	clone := *address
	s.addresses[address.ID] = &clone
	return nil
}

func (s *stubAddressRepo) GetForUser(_ context.Context, id, userID string) (*domain.Address, error) {
	address, ok := s.addresses[id]
	if !ok || address.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	clone := *address
	return &clone, nil
}

func (s *stubAddressRepo) ListByUser(_ context.Context, userID string) ([]domain.Address, error) {
	var result []domain.Address
	for _, address := range s.addresses {
		if address.UserID == userID {
			result = append(result, *address)
		}
	}
	return result, nil
}

func (s *stubAddressRepo) DeleteForUser(_ context.Context, id, userID string) error {
	address, ok := s.addresses[id]
	if !ok || address.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(s.addresses, id)
	return nil
}

type stubBusinessRepo struct {
	profiles map[string]*domain.BusinessProfile
	nextID   int
}

func newStubBusinessRepo() *stubBusinessRepo {
	return &stubBusinessRepo{profiles: map[string]*domain.BusinessProfile{}}
}

func (s *stubBusinessRepo) Create(_ context.Context, profile *domain.BusinessProfile) error {
	s.nextID++
	profile.ID = fmt.Sprintf("biz-%d", s.nextID)
	profile.CreatedAt = time.Now()
	clone := *profile
	s.profiles[profile.ID] = &clone
	return nil
}

func (s *stubBusinessRepo) Update(_ context.Context, profile *domain.BusinessProfile) error {
	if _, ok := s.profiles[profile.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *profile
	s.profiles[profile.ID] = &clone
	return nil
}

func (s *stubBusinessRepo) GetByID(_ context.Context, id string) (*domain.BusinessProfile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *profile
	return &clone, nil
}

func (s *stubBusinessRepo) GetByProviderID(_ context.Context, providerID string) (*domain.BusinessProfile, error) {
	for _, profile := range s.profiles {
		if profile.ProviderID == providerID {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubBusinessRepo) GetListing(_ context.Context, id string) (*repository.BusinessListing, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &repository.BusinessListing{BusinessProfile: *profile}, nil
}

func (s *stubBusinessRepo) List(_ context.Context) ([]repository.BusinessListing, error) {
	var result []repository.BusinessListing
	for _, profile := range s.profiles {
		result = append(result, repository.BusinessListing{BusinessProfile: *profile})
	}
	return result, nil
}

func (s *stubBusinessRepo) SetVerified(_ context.Context, id string, verified bool) error {
	profile, ok := s.profiles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	profile.Verified = verified
	return nil
}

func (s *stubBusinessRepo) DeleteForProvider(_ context.Context, id, providerID string) error {
	profile, ok := s.profiles[id]
	if !ok || profile.ProviderID != providerID {
		return pgx.ErrNoRows
	}
	delete(s.profiles, id)
	return nil
}

type stubServiceRepo struct {
	services map[string]*domain.Service
	nextID   int
	ratings  map[string]repository.ServiceRatingAggregate
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{
		services: map[string]*domain.Service{},
		ratings:  map[string]repository.ServiceRatingAggregate{},
	}
}

func (s *stubServiceRepo) Create(_ context.Context, service *domain.Service) error {
	s.nextID++
	service.ID = fmt.Sprintf("svc-%d", s.nextID)
	service.CreatedAt = time.Now()
	clone := *service
	s.services[service.ID] = &clone
	return nil
}

func (s *stubServiceRepo) Update(_ context.Context, service *domain.Service) error {
	if _, ok := s.services[service.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *service
	s.services[service.ID] = &clone
	return nil
}

func (s *stubServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	service, ok := s.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *service
	return &clone, nil
}

func (s *stubServiceRepo) List(_ context.Context) ([]repository.ServiceListing, error) {
	var result []repository.ServiceListing
	for _, service := range s.services {
		if service.Active {
			result = append(result, repository.ServiceListing{Service: *service})
		}
	}
	return result, nil
}

func (s *stubServiceRepo) ListByBusiness(_ context.Context, businessID string) ([]domain.Service, error) {
	var result []domain.Service
	for _, service := range s.services {
		if service.BusinessID == businessID {
			result = append(result, *service)
		}
	}
	return result, nil
}

func (s *stubServiceRepo) UpdateRating(_ context.Context, id string, rating float64, reviewCount int) error {
	service, ok := s.services[id]
	if !ok {
		return pgx.ErrNoRows
	}
	service.Rating = rating
	service.ReviewCount = reviewCount
	return nil
}

func (s *stubServiceRepo) DeleteForBusiness(_ context.Context, id, businessID string) error {
	service, ok := s.services[id]
	if !ok || service.BusinessID != businessID {
		return pgx.ErrNoRows
	}
	delete(s.services, id)
	return nil
}

type stubSlotRepo struct {
	slots  map[string]*domain.Slot
	nextID int
}

func newStubSlotRepo() *stubSlotRepo {
	return &stubSlotRepo{slots: map[string]*domain.Slot{}}
}

func (s *stubSlotRepo) Create(_ context.Context, slot *domain.Slot) error {
	s.nextID++
	slot.ID = fmt.Sprintf("slot-%d", s.nextID)
	slot.CreatedAt = time.Now()
	clone := *slot
	s.slots[slot.ID] = &clone
	return nil
}

func (s *stubSlotRepo) CreateIgnoreDuplicate(ctx context.Context, slot *domain.Slot) (bool, error) {
	for _, existing := range s.slots {
		if existing.BusinessID == slot.BusinessID && existing.Start == slot.Start {
			return false, nil
		}
	}
	return true, s.Create(ctx, slot)
}

func (s *stubSlotRepo) GetByID(_ context.Context, id string) (*domain.Slot, error) {
	slot, ok := s.slots[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *slot
	return &clone, nil
}

func (s *stubSlotRepo) ListByBusiness(_ context.Context, businessID string) ([]domain.Slot, error) {
	var result []domain.Slot
	for _, slot := range s.slots {
		if slot.BusinessID == businessID {
			result = append(result, *slot)
		}
	}
	return result, nil
}

func (s *stubSlotRepo) DeleteForBusiness(_ context.Context, id, businessID string) error {
	slot, ok := s.slots[id]
	if !ok || slot.BusinessID != businessID {
		return pgx.ErrNoRows
	}
	delete(s.slots, id)
	return nil
}

type stubBookingRepo struct {
	bookings map[string]*domain.Booking
	nextID   int
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: map[string]*domain.Booking{}}
}

func (s *stubBookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	s.nextID++
	booking.ID = fmt.Sprintf("bkg-%d", s.nextID)
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	clone := *booking
	s.bookings[booking.ID] = &clone
	return nil
}

func (s *stubBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	booking, ok := s.bookings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return nil
}

func (s *stubBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *booking
	return &clone, nil
}

func (s *stubBookingRepo) ExistsLiveForSlotDate(_ context.Context, slotID string, date time.Time) (bool, error) {
	for _, booking := range s.bookings {
		if booking.SlotID == slotID && booking.Date.Equal(date) && booking.Status != domain.BookingStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubBookingRepo) ListByCustomer(_ context.Context, customerID string) ([]repository.BookingDetail, error) {
	var result []repository.BookingDetail
	for _, booking := range s.bookings {
		if booking.CustomerID == customerID {
			result = append(result, repository.BookingDetail{Booking: *booking})
		}
	}
	return result, nil
}

func (s *stubBookingRepo) ListByBusiness(_ context.Context, businessID string) ([]repository.BookingDetail, error) {
	var result []repository.BookingDetail
	for _, booking := range s.bookings {
		if booking.BusinessID == businessID {
			result = append(result, repository.BookingDetail{Booking: *booking})
		}
	}
	return result, nil
}

func (s *stubBookingRepo) ListElapsedConfirmed(_ context.Context, today time.Time, nowMinute int) ([]domain.Booking, error) {
	var result []domain.Booking
	for _, booking := range s.bookings {
		if booking.Status == domain.BookingStatusConfirmed && booking.Date.Before(today) {
			result = append(result, *booking)
		}
	}
	return result, nil
}

type stubOTPStore struct {
	codes map[string]string
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{codes: map[string]string{}}
}

func (s *stubOTPStore) Set(_ context.Context, email, code string, _ time.Duration) error {
	s.codes[email] = code
	return nil
}

func (s *stubOTPStore) Get(_ context.Context, email string) (string, error) {
	code, ok := s.codes[email]
	if !ok {
		return "", repository.ErrOTPNotFound
	}
	return code, nil
}

func (s *stubOTPStore) Delete(_ context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

type sentEmail struct {
	To      string
	Kind    string
	Payload string
}

type stubMailer struct {
	sent []sentEmail
}

func (s *stubMailer) SendOTP(_ context.Context, to, code string, _ int) error {
	s.sent = append(s.sent, sentEmail{To: to, Kind: "otp", Payload: code})
	return nil
}

func (s *stubMailer) SendPasswordChanged(_ context.Context, to string) error {
	s.sent = append(s.sent, sentEmail{To: to, Kind: "password_changed"})
	return nil
}

func (s *stubMailer) SendBookingStatusUpdate(_ context.Context, to, reference, status string) error {
	s.sent = append(s.sent, sentEmail{To: to, Kind: "booking_status", Payload: status})
	return nil
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := util.ToDomainError(err)
	require.Equal(t, code, domainErr.Code, "unexpected error: %v", err)
}
