package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// AddressService manages customer addresses. All operations are scoped to
// the owning user so one account can never touch another's rows.
type AddressService struct {
	addresses repository.AddressRepository
}

// AddressInput describes address create/update payloads.
type AddressInput struct {
	Type    domain.AddressType
	Street  string
	City    string
	State   string
	ZipCode string
}

// NewAddressService constructs the service.
func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// Create adds an address for the user.
func (s *AddressService) Create(ctx context.Context, userID string, input AddressInput) (*domain.Address, error) {
	if !input.Type.Valid() {
		return nil, util.NewValidationError("invalid address type", map[string]any{"type": input.Type})
	}

	address := &domain.Address{
		UserID:  userID,
		Type:    input.Type,
		Street:  input.Street,
		City:    input.City,
		State:   input.State,
		ZipCode: input.ZipCode,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, util.NewInternalError(err)
	}
	return address, nil
}

// Update replaces an address the user owns.
func (s *AddressService) Update(ctx context.Context, userID, addressID string, input AddressInput) (*domain.Address, error) {
	if !input.Type.Valid() {
		return nil, util.NewValidationError("invalid address type", map[string]any{"type": input.Type})
	}

	address := &domain.Address{
		ID:      addressID,
		UserID:  userID,
		Type:    input.Type,
		Street:  input.Street,
		City:    input.City,
		State:   input.State,
		ZipCode: input.ZipCode,
	}
	if err := s.addresses.Update(ctx, address); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("address")
		}
		return nil, util.NewInternalError(err)
	}
	return s.Get(ctx, userID, addressID)
}

// Get fetches an address the user owns.
func (s *AddressService) Get(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	address, err := s.addresses.GetForUser(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("address")
		}
		return nil, util.NewInternalError(err)
	}
	return address, nil
}

// List returns the user's addresses.
func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return addresses, nil
}

// Delete removes an address the user owns.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	if err := s.addresses.DeleteForUser(ctx, addressID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("address")
		}
		return util.NewInternalError(err)
	}
	return nil
}
