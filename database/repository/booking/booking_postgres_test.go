package bookingRepo

import (
	"reflect"
	"testing"
	"time"

	"homestay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow scans fixed column values, as pgx would for a session in a non-UTC time zone.
type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r[i]))
	}
	return nil
}

func TestScanBookingNormalizesToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	checkIn := time.Date(2025, 1, 1, 5, 30, 0, 0, ist)
	checkOut := time.Date(2025, 1, 3, 5, 30, 0, 0, ist)
	paid := time.Date(2025, 1, 1, 10, 0, 0, 0, ist)
	created := time.Date(2024, 12, 20, 9, 0, 0, 0, ist)
	orderID := "order_1"
	var none *string

	row := fakeRow{
		"bk-1", "user-1", "Asha", "asha@example.com", "room-1", "Garden",
		checkIn, checkOut, "14:00", 2, none,
		2, 1000.0, 2100.0, "INR", string(models.BookingConfirmed), string(models.PaymentSuccess),
		&orderID, none, none, (*float64)(nil), &paid,
		created, created,
	}

	b, err := scanBooking(row)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, b.CheckInDate.Location())
	assert.True(t, b.CheckInDate.Equal(day("2025-01-01")))
	assert.Equal(t, day("2025-01-01"), b.CheckInDate, "scanned date must match one parsed in UTC")
	assert.Equal(t, day("2025-01-03"), b.CheckOutDate)
	assert.Equal(t, time.UTC, b.CreatedAt.Location())
	assert.Equal(t, time.UTC, b.UpdatedAt.Location())
	require.NotNil(t, b.PaidAt)
	assert.Equal(t, time.UTC, b.PaidAt.Location())
	assert.True(t, b.PaidAt.Equal(paid))
	assert.Equal(t, "order_1", b.RazorpayOrderID)
}
