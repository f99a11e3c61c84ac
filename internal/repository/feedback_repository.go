package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homeservice/internal/domain"
)

// FeedbackEntry is feedback joined with the authoring customer for public
// review listings.
type FeedbackEntry struct {
	domain.Feedback
	CustomerName   string
	CustomerAvatar *string
}

// ServiceRatingAggregate is the full scan-and-average over a service's
// feedback set.
type ServiceRatingAggregate struct {
	Mean  float64
	Count int
}

// FeedbackRepository encapsulates feedback persistence. The booking_id
// unique constraint backs the one-feedback-per-booking invariant.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	ExistsByBooking(ctx context.Context, bookingID string) (bool, error)
	AggregateByService(ctx context.Context, serviceID string) (ServiceRatingAggregate, error)
	ListByService(ctx context.Context, serviceID string) ([]FeedbackEntry, error)
	ListByBusiness(ctx context.Context, businessID string) ([]FeedbackEntry, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository returns a Postgres-backed implementation.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (booking_id, service_id, customer_id, rating, comments)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		feedback.BookingID,
		feedback.ServiceID,
		feedback.CustomerID,
		feedback.Rating,
		feedback.Comments,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepository) ExistsByBooking(ctx context.Context, bookingID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM feedback WHERE booking_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, bookingID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *feedbackRepository) AggregateByService(ctx context.Context, serviceID string) (ServiceRatingAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(rating), 0), COUNT(*)
        FROM feedback WHERE service_id=$1`

	var agg ServiceRatingAggregate
	if err := r.pool.QueryRow(ctx, query, serviceID).Scan(&agg.Mean, &agg.Count); err != nil {
		return ServiceRatingAggregate{}, err
	}
	return agg, nil
}

const entryQuery = `
        SELECT f.id, f.booking_id, f.service_id, f.customer_id, f.rating, f.comments, f.created_at,
               u.name, u.avatar_url
        FROM feedback f
        JOIN users u ON u.id = f.customer_id`

func (r *feedbackRepository) ListByService(ctx context.Context, serviceID string) ([]FeedbackEntry, error) {
	rows, err := r.pool.Query(ctx, entryQuery+` WHERE f.service_id=$1 ORDER BY f.created_at DESC`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeedbackEntries(rows)
}

func (r *feedbackRepository) ListByBusiness(ctx context.Context, businessID string) ([]FeedbackEntry, error) {
	const query = entryQuery + `
        JOIN bookings b ON b.id = f.booking_id
        WHERE b.business_id=$1 ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeedbackEntries(rows)
}

func scanFeedbackEntries(rows pgx.Rows) ([]FeedbackEntry, error) {
	var result []FeedbackEntry
	for rows.Next() {
		var entry FeedbackEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.ServiceID,
			&entry.CustomerID,
			&entry.Rating,
			&entry.Comments,
			&entry.CreatedAt,
			&entry.CustomerName,
			&entry.CustomerAvatar,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
