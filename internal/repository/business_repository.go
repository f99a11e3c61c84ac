package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homeservice/internal/domain"
)

// BusinessListing is a storefront joined with its provider contact details
// and category name for public browsing.
type BusinessListing struct {
	domain.BusinessProfile
	CategoryName  *string
	ProviderName  string
	ProviderEmail string
	ProviderPhone string
}

// BusinessRepository encapsulates storefront persistence.
type BusinessRepository interface {
	Create(ctx context.Context, profile *domain.BusinessProfile) error
	Update(ctx context.Context, profile *domain.BusinessProfile) error
	GetByID(ctx context.Context, id string) (*domain.BusinessProfile, error)
	GetByProviderID(ctx context.Context, providerID string) (*domain.BusinessProfile, error)
	GetListing(ctx context.Context, id string) (*BusinessListing, error)
	List(ctx context.Context) ([]BusinessListing, error)
	SetVerified(ctx context.Context, id string, verified bool) error
	DeleteForProvider(ctx context.Context, id, providerID string) error
}

type businessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository returns a Postgres-backed implementation.
func NewBusinessRepository(pool *pgxpool.Pool) BusinessRepository {
	return &businessRepository{pool: pool}
}

const businessColumns = `id, provider_id, category_id, name, description, phone, state, city,
               website, logo_url, cover_image_url, verified, created_at, updated_at`

func (r *businessRepository) Create(ctx context.Context, profile *domain.BusinessProfile) error {
	const query = `
        INSERT INTO business_profiles (provider_id, category_id, name, description, phone, state, city, website, logo_url, cover_image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, verified, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.ProviderID,
		profile.CategoryID,
		profile.Name,
		profile.Description,
		profile.Phone,
		profile.State,
		profile.City,
		profile.Website,
		profile.LogoURL,
		profile.CoverImageURL,
	).Scan(&profile.ID, &profile.Verified, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *businessRepository) Update(ctx context.Context, profile *domain.BusinessProfile) error {
	const query = `
        UPDATE business_profiles SET category_id=$1, name=$2, description=$3, phone=$4, state=$5,
            city=$6, website=$7, logo_url=$8, cover_image_url=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		profile.CategoryID,
		profile.Name,
		profile.Description,
		profile.Phone,
		profile.State,
		profile.City,
		profile.Website,
		profile.LogoURL,
		profile.CoverImageURL,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (*domain.BusinessProfile, error) {
	const query = `SELECT ` + businessColumns + ` FROM business_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *businessRepository) GetByProviderID(ctx context.Context, providerID string) (*domain.BusinessProfile, error) {
	const query = `SELECT ` + businessColumns + ` FROM business_profiles WHERE provider_id=$1`
	return r.fetchSingle(ctx, query, providerID)
}

func (r *businessRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.BusinessProfile, error) {
	var profile domain.BusinessProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.ProviderID,
		&profile.CategoryID,
		&profile.Name,
		&profile.Description,
		&profile.Phone,
		&profile.State,
		&profile.City,
		&profile.Website,
		&profile.LogoURL,
		&profile.CoverImageURL,
		&profile.Verified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

const listingQuery = `
        SELECT b.id, b.provider_id, b.category_id, b.name, b.description, b.phone, b.state, b.city,
               b.website, b.logo_url, b.cover_image_url, b.verified, b.created_at, b.updated_at,
               c.name, u.name, u.email, u.phone
        FROM business_profiles b
        LEFT JOIN categories c ON c.id = b.category_id
        JOIN users u ON u.id = b.provider_id`

func (r *businessRepository) GetListing(ctx context.Context, id string) (*BusinessListing, error) {
	rows, err := r.pool.Query(ctx, listingQuery+` WHERE b.id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &listings[0], nil
}

func (r *businessRepository) List(ctx context.Context) ([]BusinessListing, error) {
	rows, err := r.pool.Query(ctx, listingQuery+` ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func scanListings(rows pgx.Rows) ([]BusinessListing, error) {
	var result []BusinessListing
	for rows.Next() {
		var listing BusinessListing
		if err := rows.Scan(
			&listing.ID,
			&listing.ProviderID,
			&listing.CategoryID,
			&listing.Name,
			&listing.Description,
			&listing.Phone,
			&listing.State,
			&listing.City,
			&listing.Website,
			&listing.LogoURL,
			&listing.CoverImageURL,
			&listing.Verified,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.CategoryName,
			&listing.ProviderName,
			&listing.ProviderEmail,
			&listing.ProviderPhone,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

func (r *businessRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	const query = `UPDATE business_profiles SET verified=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, verified, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *businessRepository) DeleteForProvider(ctx context.Context, id, providerID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM business_profiles WHERE id=$1 AND provider_id=$2`, id, providerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
