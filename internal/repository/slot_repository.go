package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homeservice/internal/domain"
)

// SlotRepository encapsulates slot-template persistence. Start/end minutes
// are minutes since midnight.
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) error
	// CreateIgnoreDuplicate inserts unless a slot with the same business and
	// start already exists; it reports whether a row was inserted.
	CreateIgnoreDuplicate(ctx context.Context, slot *domain.Slot) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Slot, error)
	DeleteForBusiness(ctx context.Context, id, businessID string) error
}

type slotRepository struct {
	pool *pgxpool.Pool
}

// NewSlotRepository returns a Postgres-backed implementation.
func NewSlotRepository(pool *pgxpool.Pool) SlotRepository {
	return &slotRepository{pool: pool}
}

func (r *slotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	const query = `
        INSERT INTO slots (business_id, start_minute, end_minute)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		slot.BusinessID,
		slot.Start.Minutes(),
		slot.End.Minutes(),
	).Scan(&slot.ID, &slot.CreatedAt)
}

func (r *slotRepository) CreateIgnoreDuplicate(ctx context.Context, slot *domain.Slot) (bool, error) {
	const query = `
        INSERT INTO slots (business_id, start_minute, end_minute)
        VALUES ($1, $2, $3)
        ON CONFLICT (business_id, start_minute) DO NOTHING
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		slot.BusinessID,
		slot.Start.Minutes(),
		slot.End.Minutes(),
	).Scan(&slot.ID, &slot.CreatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *slotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	const query = `
        SELECT id, business_id, start_minute, end_minute, created_at
        FROM slots WHERE id=$1`

	var slot domain.Slot
	var start, end int
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.BusinessID,
		&start,
		&end,
		&slot.CreatedAt,
	); err != nil {
		return nil, err
	}
	slot.Start = domain.TimeOfDay(start)
	slot.End = domain.TimeOfDay(end)
	return &slot, nil
}

func (r *slotRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Slot, error) {
	const query = `
        SELECT id, business_id, start_minute, end_minute, created_at
        FROM slots WHERE business_id=$1 ORDER BY start_minute`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Slot
	for rows.Next() {
		var slot domain.Slot
		var start, end int
		if err := rows.Scan(
			&slot.ID,
			&slot.BusinessID,
			&start,
			&end,
			&slot.CreatedAt,
		); err != nil {
			return nil, err
		}
		slot.Start = domain.TimeOfDay(start)
		slot.End = domain.TimeOfDay(end)
		result = append(result, slot)
	}
	return result, rows.Err()
}

func (r *slotRepository) DeleteForBusiness(ctx context.Context, id, businessID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM slots WHERE id=$1 AND business_id=$2`, id, businessID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
