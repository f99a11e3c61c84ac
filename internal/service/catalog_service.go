package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// CatalogService manages categories and the service offerings providers
// publish under their business.
type CatalogService struct {
	categories repository.CategoryRepository
	services   repository.ServiceRepository
	businesses repository.BusinessRepository
}

// CatalogDependencies bundles repositories for the catalog service.
type CatalogDependencies struct {
	CategoryRepo repository.CategoryRepository
	ServiceRepo  repository.ServiceRepository
	BusinessRepo repository.BusinessRepository
}

// CategoryInput describes category create/update payloads.
type CategoryInput struct {
	Name        string
	Description string
	ImageURL    *string
}

// ServiceInput describes offering create/update payloads. Price is in the
// smallest currency unit.
type ServiceInput struct {
	Name            string
	Description     string
	Price           int64
	DurationMinutes int
	ImageURL        *string
	Active          bool
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		categories: deps.CategoryRepo,
		services:   deps.ServiceRepo,
		businesses: deps.BusinessRepo,
	}
}

// CreateCategory adds a category. Admin only, enforced at the route.
func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, util.NewValidationError("category name is required", nil)
	}
	category := &domain.Category{
		Name:        name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("category already exists", map[string]any{"name": name})
		}
		return nil, util.NewInternalError(err)
	}
	return category, nil
}

// UpdateCategory replaces a category's fields.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(input.Name)
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	if err := s.categories.Update(ctx, category); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("category already exists", map[string]any{"name": category.Name})
		}
		return nil, util.NewInternalError(err)
	}
	return category, nil
}

// GetCategory fetches one category.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("category")
		}
		return nil, util.NewInternalError(err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return categories, nil
}

// DeleteCategory removes a category. Businesses referencing it keep a null
// category via the FK.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("category")
		}
		return util.NewInternalError(err)
	}
	return nil
}

// CreateService publishes an offering under the provider's business.
func (s *CatalogService) CreateService(ctx context.Context, providerID string, input ServiceInput) (*domain.Service, error) {
	business, err := s.businessOf(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := validateServiceInput(input); err != nil {
		return nil, err
	}

	offering := &domain.Service{
		BusinessID:      business.ID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		ImageURL:        input.ImageURL,
		Active:          input.Active,
	}
	if err := s.services.Create(ctx, offering); err != nil {
		return nil, util.NewInternalError(err)
	}
	return offering, nil
}

// UpdateService replaces an offering the provider owns.
func (s *CatalogService) UpdateService(ctx context.Context, providerID, serviceID string, input ServiceInput) (*domain.Service, error) {
	business, err := s.businessOf(ctx, providerID)
	if err != nil {
		return nil, err
	}
	offering, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if offering.BusinessID != business.ID {
		return nil, util.NewForbidden("service belongs to another business")
	}
	if err := validateServiceInput(input); err != nil {
		return nil, err
	}

	offering.Name = strings.TrimSpace(input.Name)
	offering.Description = input.Description
	offering.Price = input.Price
	offering.DurationMinutes = input.DurationMinutes
	offering.ImageURL = input.ImageURL
	offering.Active = input.Active
	if err := s.services.Update(ctx, offering); err != nil {
		return nil, util.NewInternalError(err)
	}
	return offering, nil
}

// GetService fetches one offering.
func (s *CatalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	offering, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("service")
		}
		return nil, util.NewInternalError(err)
	}
	return offering, nil
}

// ListServices returns active offerings across all businesses for browsing.
func (s *CatalogService) ListServices(ctx context.Context) ([]repository.ServiceListing, error) {
	listings, err := s.services.List(ctx)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return listings, nil
}

// ListBusinessServices returns a business's offerings.
func (s *CatalogService) ListBusinessServices(ctx context.Context, businessID string) ([]domain.Service, error) {
	offerings, err := s.services.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return offerings, nil
}

// DeleteService removes an offering the provider owns.
func (s *CatalogService) DeleteService(ctx context.Context, providerID, serviceID string) error {
	business, err := s.businessOf(ctx, providerID)
	if err != nil {
		return err
	}
	if err := s.services.DeleteForBusiness(ctx, serviceID, business.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("service")
		}
		return util.NewInternalError(err)
	}
	return nil
}

func (s *CatalogService) businessOf(ctx context.Context, providerID string) (*domain.BusinessProfile, error) {
	business, err := s.businesses.GetByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("business profile")
		}
		return nil, util.NewInternalError(err)
	}
	return business, nil
}

func validateServiceInput(input ServiceInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if input.Price <= 0 {
		details["price"] = "must be positive"
	}
	if input.DurationMinutes <= 0 {
		details["duration_minutes"] = "must be positive"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid service payload", details)
	}
	return nil
}
