package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homeservice/internal/domain"
)

// BookingDetail is a booking joined with the rows it references, shaped for
// customer and provider listings.
type BookingDetail struct {
	domain.Booking
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	BusinessName  string
	ServiceName   string
	SlotStart     domain.TimeOfDay
	SlotEnd       domain.TimeOfDay
	Street        string
	City          string
	State         string
	ZipCode       string
}

// BookingRepository encapsulates booking persistence. Create relies on the
// partial unique index over (slot_id, booking_date) for non-cancelled rows;
// callers map the unique violation to a conflict outcome.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ExistsLiveForSlotDate(ctx context.Context, slotID string, date time.Time) (bool, error)
	ListByCustomer(ctx context.Context, customerID string) ([]BookingDetail, error)
	ListByBusiness(ctx context.Context, businessID string) ([]BookingDetail, error)
	ListElapsedConfirmed(ctx context.Context, today time.Time, nowMinute int) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository returns a Postgres-backed implementation.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingColumns = `id, reference, customer_id, business_id, service_id, slot_id, address_id,
               booking_date, status, total_price, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (reference, customer_id, business_id, service_id, slot_id, address_id, booking_date, status, total_price)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		booking.Reference,
		booking.CustomerID,
		booking.BusinessID,
		booking.ServiceID,
		booking.SlotID,
		booking.AddressID,
		booking.Date,
		booking.Status,
		booking.TotalPrice,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	const query = `UPDATE bookings SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`

	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.CustomerID,
		&booking.BusinessID,
		&booking.ServiceID,
		&booking.SlotID,
		&booking.AddressID,
		&booking.Date,
		&booking.Status,
		&booking.TotalPrice,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ExistsLiveForSlotDate(ctx context.Context, slotID string, date time.Time) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM bookings
            WHERE slot_id=$1 AND booking_date=$2 AND status <> 'cancelled')`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slotID, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const detailQuery = `
        SELECT b.id, b.reference, b.customer_id, b.business_id, b.service_id, b.slot_id, b.address_id,
               b.booking_date, b.status, b.total_price, b.created_at, b.updated_at,
               u.name, u.email, u.phone,
               bp.name, s.name, sl.start_minute, sl.end_minute,
               a.street, a.city, a.state, a.zip_code
        FROM bookings b
        JOIN users u ON u.id = b.customer_id
        JOIN business_profiles bp ON bp.id = b.business_id
        JOIN services s ON s.id = b.service_id
        JOIN slots sl ON sl.id = b.slot_id
        JOIN addresses a ON a.id = b.address_id`

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]BookingDetail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` WHERE b.customer_id=$1 ORDER BY b.booking_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingDetails(rows)
}

func (r *bookingRepository) ListByBusiness(ctx context.Context, businessID string) ([]BookingDetail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` WHERE b.business_id=$1 ORDER BY b.booking_date DESC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingDetails(rows)
}

func scanBookingDetails(rows pgx.Rows) ([]BookingDetail, error) {
	var result []BookingDetail
	for rows.Next() {
		var detail BookingDetail
		var start, end int
		if err := rows.Scan(
			&detail.ID,
			&detail.Reference,
			&detail.CustomerID,
			&detail.BusinessID,
			&detail.ServiceID,
			&detail.SlotID,
			&detail.AddressID,
			&detail.Date,
			&detail.Status,
			&detail.TotalPrice,
			&detail.CreatedAt,
			&detail.UpdatedAt,
			&detail.CustomerName,
			&detail.CustomerEmail,
			&detail.CustomerPhone,
			&detail.BusinessName,
			&detail.ServiceName,
			&start,
			&end,
			&detail.Street,
			&detail.City,
			&detail.State,
			&detail.ZipCode,
		); err != nil {
			return nil, err
		}
		detail.SlotStart = domain.TimeOfDay(start)
		detail.SlotEnd = domain.TimeOfDay(end)
		result = append(result, detail)
	}
	return result, rows.Err()
}

func (r *bookingRepository) ListElapsedConfirmed(ctx context.Context, today time.Time, nowMinute int) ([]domain.Booking, error) {
	const query = `
        SELECT b.id, b.reference, b.customer_id, b.business_id, b.service_id, b.slot_id, b.address_id,
               b.booking_date, b.status, b.total_price, b.created_at, b.updated_at
        FROM bookings b
        JOIN slots sl ON sl.id = b.slot_id
        WHERE b.status = 'confirmed'
          AND (b.booking_date < $1 OR (b.booking_date = $1 AND sl.end_minute <= $2))`

	rows, err := r.pool.Query(ctx, query, today, nowMinute)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.CustomerID,
			&booking.BusinessID,
			&booking.ServiceID,
			&booking.SlotID,
			&booking.AddressID,
			&booking.Date,
			&booking.Status,
			&booking.TotalPrice,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, booking)
	}
	return result, rows.Err()
}
