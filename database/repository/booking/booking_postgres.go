package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homestay/database"
	"homestay/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error code for unique violation
const pgUniqueViolationCode = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS bookings (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	guest_name          TEXT NOT NULL DEFAULT '',
	guest_email         TEXT NOT NULL DEFAULT '',
	room_id             TEXT NOT NULL,
	room_name           TEXT NOT NULL DEFAULT '',
	check_in_date       TIMESTAMPTZ NOT NULL,
	check_out_date      TIMESTAMPTZ NOT NULL,
	check_in_time       TEXT NOT NULL DEFAULT '',
	guests              INTEGER NOT NULL,
	special_requests    TEXT,
	nights              INTEGER NOT NULL,
	nightly_rate        NUMERIC(12,2) NOT NULL,
	total_amount        NUMERIC(12,2) NOT NULL,
	currency            TEXT NOT NULL,
	booking_status      TEXT NOT NULL,
	payment_status      TEXT NOT NULL,
	razorpay_order_id   TEXT UNIQUE,
	razorpay_payment_id TEXT,
	payment_method      TEXT,
	amount_paid         NUMERIC(12,2),
	paid_at             TIMESTAMPTZ,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_user_pending ON bookings (user_id, payment_status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_bookings_room_status ON bookings (room_id, booking_status, check_in_date);
`

// selectColumns defines the columns to select for booking queries
const selectColumns = `
	id, user_id, guest_name, guest_email, room_id, room_name,
	check_in_date, check_out_date, check_in_time, guests, special_requests,
	nights, nightly_rate::float8, total_amount::float8, currency, booking_status, payment_status,
	razorpay_order_id, razorpay_payment_id, payment_method, amount_paid::float8, paid_at,
	created_at, updated_at
`

// PostgresBookingRepo implements BookingRepository using PostgreSQL.
type PostgresBookingRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepo creates the repository and its table if missing.
func NewPostgresBookingRepo(ctx context.Context, pool *pgxpool.Pool) (BookingRepository, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create bookings schema: %w", err)
	}
	return &PostgresBookingRepo{pool: pool}, nil
}

// nullString returns nil if string is empty, otherwise returns pointer to string
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *PostgresBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, guest_name, guest_email, room_id, room_name,
			check_in_date, check_out_date, check_in_time, guests, special_requests,
			nights, nightly_rate, total_amount, currency, booking_status, payment_status,
			razorpay_order_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.UserID, b.GuestName, b.GuestEmail, b.RoomID, b.RoomName,
		b.CheckInDate, b.CheckOutDate, b.CheckInTime, b.Guests, nullString(b.SpecialRequests),
		b.Nights, b.NightlyRate, b.TotalAmount, b.Currency, string(b.BookingStatus), string(b.PaymentStatus),
		nullString(b.RazorpayOrderID), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return database.ErrDuplicate
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	var special, orderID, paymentID, method *string
	var amountPaid *float64
	var bookingStatus, paymentStatus string
	err := row.Scan(
		&b.ID, &b.UserID, &b.GuestName, &b.GuestEmail, &b.RoomID, &b.RoomName,
		&b.CheckInDate, &b.CheckOutDate, &b.CheckInTime, &b.Guests, &special,
		&b.Nights, &b.NightlyRate, &b.TotalAmount, &b.Currency, &bookingStatus, &paymentStatus,
		&orderID, &paymentID, &method, &amountPaid, &b.PaidAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	b.BookingStatus = models.BookingStatus(bookingStatus)
	b.PaymentStatus = models.PaymentStatus(paymentStatus)
	if special != nil {
		b.SpecialRequests = *special
	}
	if orderID != nil {
		b.RazorpayOrderID = *orderID
	}
	if paymentID != nil {
		b.RazorpayPaymentID = *paymentID
	}
	if method != nil {
		b.PaymentMethod = *method
	}
	if amountPaid != nil {
		b.AmountPaid = *amountPaid
	}
	normalizeTimes(&b)
	return &b, nil
}

// normalizeTimes puts scanned timestamps in UTC so dates compare the same as the other stores.
func normalizeTimes(b *models.Booking) {
	b.CheckInDate = b.CheckInDate.UTC()
	b.CheckOutDate = b.CheckOutDate.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	if b.PaidAt != nil {
		paid := b.PaidAt.UTC()
		b.PaidAt = &paid
	}
}

func (r *PostgresBookingRepo) queryMany(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (r *PostgresBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings WHERE razorpay_order_id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, orderID))
}

func (r *PostgresBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, userID)
}

func (r *PostgresBookingRepo) ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryMany(ctx, query, limit, offset)
}

func (r *PostgresBookingRepo) ListPendingByUser(ctx context.Context, userID string, since time.Time) ([]models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings
		WHERE user_id = $1 AND payment_status = $2 AND created_at >= $3
		ORDER BY created_at ASC`
	return r.queryMany(ctx, query, userID, string(models.PaymentPending), since)
}

func (r *PostgresBookingRepo) ListPendingUsers(ctx context.Context, since time.Time) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM bookings
		WHERE payment_status = $1 AND created_at >= $2 AND razorpay_order_id IS NOT NULL`
	rows, err := r.pool.Query(ctx, query, string(models.PaymentPending), since)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect pending users: %w", err)
	}
	return users, nil
}

func (r *PostgresBookingRepo) ListConfirmedForRoom(ctx context.Context, roomID string, from, to time.Time) ([]models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings
		WHERE room_id = $1 AND booking_status = $2 AND check_in_date <= $3 AND check_out_date >= $4
		ORDER BY check_in_date ASC`
	return r.queryMany(ctx, query, roomID, string(models.BookingConfirmed), to, from)
}

func (r *PostgresBookingRepo) SetOrderID(ctx context.Context, bookingID, orderID string) (bool, error) {
	query := `UPDATE bookings SET razorpay_order_id = $2, updated_at = $3
		WHERE id = $1 AND (razorpay_order_id IS NULL OR razorpay_order_id = '')`
	tag, err := r.pool.Exec(ctx, query, bookingID, orderID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to set order id on booking %s: %w", bookingID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresBookingRepo) TransitionByOrderID(ctx context.Context, orderID string, t Transition) (*models.Booking, bool, error) {
	var amountPaid *float64
	if t.AmountPaid > 0 {
		amountPaid = &t.AmountPaid
	}
	query := `UPDATE bookings SET
			payment_status = $2,
			booking_status = $3,
			razorpay_payment_id = COALESCE($4, razorpay_payment_id),
			payment_method = COALESCE($5, payment_method),
			amount_paid = COALESCE($6, amount_paid),
			paid_at = COALESCE($7, paid_at),
			updated_at = $8
		WHERE razorpay_order_id = $1 AND payment_status = 'pending'
		RETURNING ` + selectColumns

	b, err := scanBooking(r.pool.QueryRow(ctx, query,
		orderID, string(t.PaymentStatus), string(t.BookingStatus),
		nullString(t.PaymentID), nullString(t.Method), amountPaid, t.PaidAt, time.Now().UTC(),
	))
	if err == nil {
		return b, true, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to transition booking for order %s: %w", orderID, err)
	}

	existing, err := r.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
