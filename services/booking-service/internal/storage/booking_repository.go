package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mindharbour/booking/libs/db"
	"github.com/mindharbour/booking/services/booking-service/internal/model"
)

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Create inserts the booking and returns its id. The partial unique index on
// (slot_date, slot_time) over active statuses is the sole guard against two
// bookings holding the same slot; a losing insert surfaces as IsConflict.
func (r *BookingRepository) Create(ctx context.Context, tx pgx.Tx, b *model.Booking) (string, error) {
	id := uuid.NewString()
	err := tx.QueryRow(ctx, `
		INSERT INTO bookings
			(id, name, email, country, age, phone, service, slot_date, slot_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, id, b.Name, b.Email, b.Country, b.Age, b.Phone, b.Service,
		b.SlotDate, b.SlotTime, b.Status).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return "", err
	}
	b.ID = id
	return id, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (model.Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx, selectBooking+` WHERE id = $1`, id))
}

// GetForUpdate locks the booking row for the duration of the transaction so
// concurrent payment callbacks for the same booking serialize on the store.
func (r *BookingRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx, selectBooking+` WHERE id = $1 FOR UPDATE`, id))
}

func (r *BookingRepository) SetStatus(ctx context.Context, tx pgx.Tx, id string, status model.Status, paymentID string) (model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx, `
		UPDATE bookings
		SET status = $2,
			payment_id = CASE WHEN $3 = '' THEN payment_id ELSE $3 END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+bookingColumns, id, status, paymentID))
}

// BookedTimes returns the slot labels held by an active booking on a day.
// This is the same predicate the unique index enforces, so advisory
// availability never disagrees with the insert guard.
func (r *BookingRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slot_time
		FROM bookings
		WHERE slot_date = $1 AND status IN ('pending', 'confirmed')
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// SlotTaken reports whether an active booking currently holds the slot.
// Advisory only; reservation relies on the index, not on this read.
func (r *BookingRepository) SlotTaken(ctx context.Context, date, slotTime string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE slot_date = $1 AND slot_time = $2 AND status IN ('pending', 'confirmed')
		)
	`, date, slotTime).Scan(&taken)
	return taken, err
}

func (r *BookingRepository) ListRecent(ctx context.Context, limit int) ([]model.Booking, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, selectBooking+`
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

const bookingColumns = `id, name, email, country, age, phone, service,
		to_char(slot_date, 'YYYY-MM-DD'), slot_time, status, payment_id, created_at, updated_at`

const selectBooking = `SELECT ` + bookingColumns + ` FROM bookings`

func scanBooking(row pgx.Row) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.Country,
		&b.Age,
		&b.Phone,
		&b.Service,
		&b.SlotDate,
		&b.SlotTime,
		&b.Status,
		&b.PaymentID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ErrNotFound marks lookups rejected before reaching the store, e.g. ids
// that cannot be a booking id at all.
var ErrNotFound = errors.New("booking not found")

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}
