package bookingRepo

import (
	"context"
	"testing"
	"time"

	"homestay/database"
	"homestay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func pendingBooking(id, orderID string) models.Booking {
	return models.Booking{
		ID:              id,
		UserID:          "user-1",
		RoomID:          "room-1",
		CheckInDate:     day("2025-01-01"),
		CheckOutDate:    day("2025-01-03"),
		BookingStatus:   models.BookingPending,
		PaymentStatus:   models.PaymentPending,
		RazorpayOrderID: orderID,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestTransitionByOrderIDAppliesOnce(t *testing.T) {
	repo := NewMemoryBookingRepo()
	repo.Put(pendingBooking("b1", "order_1"))

	tr := Transition{
		PaymentStatus: models.PaymentSuccess,
		BookingStatus: models.BookingConfirmed,
		PaymentID:     "pay_1",
	}

	b, changed, err := repo.TransitionByOrderID(context.Background(), "order_1", tr)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.PaymentSuccess, b.PaymentStatus)
	assert.Equal(t, "pay_1", b.RazorpayPaymentID)

	b, changed, err = repo.TransitionByOrderID(context.Background(), "order_1", tr)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.BookingConfirmed, b.BookingStatus)
}

func TestTransitionByOrderIDUnknownOrder(t *testing.T) {
	repo := NewMemoryBookingRepo()
	_, _, err := repo.TransitionByOrderID(context.Background(), "missing", Transition{})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestSetOrderIDOnlyOnce(t *testing.T) {
	repo := NewMemoryBookingRepo()
	repo.Put(pendingBooking("b1", ""))

	ok, err := repo.SetOrderID(context.Background(), "b1", "order_a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetOrderID(context.Background(), "b1", "order_b")
	require.NoError(t, err)
	assert.False(t, ok)

	b, err := repo.GetByOrderID(context.Background(), "order_a")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)
}

func TestListConfirmedForRoomIncludesCheckoutDay(t *testing.T) {
	repo := NewMemoryBookingRepo()
	confirmed := pendingBooking("b1", "order_1")
	confirmed.BookingStatus = models.BookingConfirmed
	repo.Put(confirmed)

	got, err := repo.ListConfirmedForRoom(context.Background(), "room-1", day("2025-01-03"), day("2025-01-05"))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.ListConfirmedForRoom(context.Background(), "room-1", day("2025-01-04"), day("2025-01-05"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListConfirmedForRoomIncludesArrivalOnRangeEnd(t *testing.T) {
	repo := NewMemoryBookingRepo()
	confirmed := pendingBooking("b1", "order_1")
	confirmed.BookingStatus = models.BookingConfirmed
	repo.Put(confirmed)

	got, err := repo.ListConfirmedForRoom(context.Background(), "room-1", confirmed.CheckInDate.AddDate(0, 0, -2), confirmed.CheckInDate)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.ListConfirmedForRoom(context.Background(), "room-1", confirmed.CheckInDate.AddDate(0, 0, -3), confirmed.CheckInDate.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, got)
}
