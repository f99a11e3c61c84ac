package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homeservice/internal/domain"
)

// ServiceListing is a service joined with its business for public browsing.
type ServiceListing struct {
	domain.Service
	BusinessName     string
	BusinessCity     string
	BusinessState    string
	BusinessVerified bool
}

// ServiceRepository encapsulates service-offering persistence.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context) ([]ServiceListing, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Service, error)
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
	DeleteForBusiness(ctx context.Context, id, businessID string) error
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository returns a Postgres-backed implementation.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

const serviceColumns = `id, business_id, name, description, price, duration_minutes, image_url,
               active, rating, review_count, created_at`

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (business_id, name, description, price, duration_minutes, image_url, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, rating, review_count, created_at`

	return r.pool.QueryRow(ctx, query,
		service.BusinessID,
		service.Name,
		service.Description,
		service.Price,
		service.DurationMinutes,
		service.ImageURL,
		service.Active,
	).Scan(&service.ID, &service.Rating, &service.ReviewCount, &service.CreatedAt)
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET name=$1, description=$2, price=$3, duration_minutes=$4, image_url=$5, active=$6
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		service.Name,
		service.Description,
		service.Price,
		service.DurationMinutes,
		service.ImageURL,
		service.Active,
		service.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	const query = `SELECT ` + serviceColumns + ` FROM services WHERE id=$1`

	var service domain.Service
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.Description,
		&service.Price,
		&service.DurationMinutes,
		&service.ImageURL,
		&service.Active,
		&service.Rating,
		&service.ReviewCount,
		&service.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]ServiceListing, error) {
	const query = `
        SELECT s.id, s.business_id, s.name, s.description, s.price, s.duration_minutes, s.image_url,
               s.active, s.rating, s.review_count, s.created_at,
               b.name, b.city, b.state, b.verified
        FROM services s
        JOIN business_profiles b ON b.id = s.business_id
        WHERE s.active
        ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ServiceListing
	for rows.Next() {
		var listing ServiceListing
		if err := rows.Scan(
			&listing.ID,
			&listing.BusinessID,
			&listing.Name,
			&listing.Description,
			&listing.Price,
			&listing.DurationMinutes,
			&listing.ImageURL,
			&listing.Active,
			&listing.Rating,
			&listing.ReviewCount,
			&listing.CreatedAt,
			&listing.BusinessName,
			&listing.BusinessCity,
			&listing.BusinessState,
			&listing.BusinessVerified,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

func (r *serviceRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Service, error) {
	const query = `SELECT ` + serviceColumns + ` FROM services WHERE business_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(
			&service.ID,
			&service.BusinessID,
			&service.Name,
			&service.Description,
			&service.Price,
			&service.DurationMinutes,
			&service.ImageURL,
			&service.Active,
			&service.Rating,
			&service.ReviewCount,
			&service.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, service)
	}
	return result, rows.Err()
}

func (r *serviceRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	const query = `UPDATE services SET rating=$1, review_count=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, rating, reviewCount, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) DeleteForBusiness(ctx context.Context, id, businessID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id=$1 AND business_id=$2`, id, businessID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
