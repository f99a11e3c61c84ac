package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homeservice/internal/domain"
)

// AddressRepository encapsulates address persistence. Every lookup is scoped
// to the owning user.
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	Update(ctx context.Context, address *domain.Address) error
	GetForUser(ctx context.Context, id, userID string) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	DeleteForUser(ctx context.Context, id, userID string) error
}

type addressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns a Postgres-backed implementation.
func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &addressRepository{pool: pool}
}

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	const query = `
        INSERT INTO addresses (user_id, address_type, street, city, state, zip_code)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		address.UserID,
		address.Type,
		address.Street,
		address.City,
		address.State,
		address.ZipCode,
	).Scan(&address.ID, &address.CreatedAt)
}

func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	const query = `
        UPDATE addresses SET address_type=$1, street=$2, city=$3, state=$4, zip_code=$5
        WHERE id=$6 AND user_id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		address.Type,
		address.Street,
		address.City,
		address.State,
		address.ZipCode,
		address.ID,
		address.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *addressRepository) GetForUser(ctx context.Context, id, userID string) (*domain.Address, error) {
	const query = `
        SELECT id, user_id, address_type, street, city, state, zip_code, created_at
        FROM addresses WHERE id=$1 AND user_id=$2`

	var address domain.Address
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&address.ID,
		&address.UserID,
		&address.Type,
		&address.Street,
		&address.City,
		&address.State,
		&address.ZipCode,
		&address.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	const query = `
        SELECT id, user_id, address_type, street, city, state, zip_code, created_at
        FROM addresses WHERE user_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		var address domain.Address
		if err := rows.Scan(
			&address.ID,
			&address.UserID,
			&address.Type,
			&address.Street,
			&address.City,
			&address.State,
			&address.ZipCode,
			&address.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, address)
	}
	return result, rows.Err()
}

func (r *addressRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
