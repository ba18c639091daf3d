package bookingRepo

import (
	"context"
	"time"

	"homestay/models"
)

// Transition is the absolute set of values written when a payment resolves.
type Transition struct {
	PaymentStatus models.PaymentStatus
	BookingStatus models.BookingStatus
	PaymentID     string
	Method        string
	AmountPaid    float64
	PaidAt        *time.Time
}

// BookingRepository persists bookings. Lookups that miss return database.ErrNotFound.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error)

	// ListPendingByUser returns the user's payment-pending bookings created at or after since.
	ListPendingByUser(ctx context.Context, userID string, since time.Time) ([]models.Booking, error)
	// ListPendingUsers returns the distinct owners of payment-pending bookings created at or after since.
	ListPendingUsers(ctx context.Context, since time.Time) ([]string, error)
	// ListConfirmedForRoom returns confirmed bookings of the room with check_in <= to and check_out >= from,
	// so stays touching either end of the range on a turnover day are included.
	ListConfirmedForRoom(ctx context.Context, roomID string, from, to time.Time) ([]models.Booking, error)

	// SetOrderID attaches a gateway order to a booking that has none yet.
	// It reports false when the booking already carries an order.
	SetOrderID(ctx context.Context, bookingID, orderID string) (bool, error)

	// TransitionByOrderID applies t only while the booking is still payment-pending.
	// It returns the resulting booking and whether this call changed it.
	TransitionByOrderID(ctx context.Context, orderID string, t Transition) (*models.Booking, bool, error)
}
