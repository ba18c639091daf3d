package booking

import (
	"context"
	"testing"
	"time"

	bookingRepo "homestay/database/repository/booking"
	roomRepo "homestay/database/repository/room"
	"homestay/models"
	"homestay/services/notification"
	"homestay/services/payment"

	"github.com/stretchr/testify/require"
)

type harness struct {
	svc        *DefaultBookingService
	bookings   *bookingRepo.MemoryBookingRepo
	rooms      *roomRepo.MemoryRoomRepo
	drafts     *MemoryDraftStore
	gateway    *payment.MockGateway
	dispatcher *notification.RecordingDispatcher
}

var garden = models.Room{ID: "room-1", Name: "Garden Suite", NightlyRate: 1000, MaxGuests: 2, Active: true}

func newHarness(t *testing.T, tweaks ...func(*Options)) *harness {
	t.Helper()
	opts := Options{
		TaxRate:      DefaultTaxRate,
		CallInterval: time.Millisecond,
	}
	for _, tweak := range tweaks {
		tweak(&opts)
	}
	h := &harness{
		bookings:   bookingRepo.NewMemoryBookingRepo(),
		rooms:      roomRepo.NewMemoryRoomRepo(garden, models.Room{ID: "room-closed", Name: "Attic", NightlyRate: 500, MaxGuests: 1}),
		drafts:     NewMemoryDraftStore(),
		gateway:    payment.NewMockGateway(),
		dispatcher: &notification.RecordingDispatcher{},
	}
	h.svc = NewBookingService(h.bookings, h.rooms, h.drafts, h.gateway, h.dispatcher, nil, opts)
	return h
}

var guest = models.Guest{UserID: "user-1", Name: "Asha Rao", Email: "asha@example.com"}

func stay(in, out string) models.BookingInput {
	return models.BookingInput{RoomID: garden.ID, CheckInDate: in, CheckOutDate: out, Guests: 2}
}

// pendingWithOrder submits a booking and opens its gateway order.
func (h *harness) pendingWithOrder(t *testing.T, in, out string) (*models.Booking, string) {
	t.Helper()
	b, err := h.svc.Submit(context.Background(), guest, stay(in, out))
	require.NoError(t, err)
	order, err := h.svc.CreateOrder(context.Background(), guest.UserID, b.ID)
	require.NoError(t, err)
	return b, order.OrderID
}

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
