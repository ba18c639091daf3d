package booking

import (
	"context"
	"sync"
	"testing"

	bookingRepo "homestay/database/repository/booking"
	"homestay/models"
	"homestay/services/notification"
	"homestay/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b, err := h.svc.Submit(ctx, guest, stay("2025-01-01", "2025-01-03"))
	require.NoError(t, err)

	first, err := h.svc.CreateOrder(ctx, guest.UserID, b.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.ClientSecret)

	again, err := h.svc.CreateOrder(ctx, guest.UserID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, again.OrderID)
	assert.Equal(t, first.ClientSecret, again.ClientSecret, "a reloaded checkout can resume")
	assert.Equal(t, 2100.0, again.Amount)
	assert.Equal(t, 1, h.gateway.Orders())

	_, err = h.svc.CreateOrder(context.Background(), "intruder", b.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

// racingGateway attaches a competing order to the booking while the caller's order is being opened.
type racingGateway struct {
	*payment.MockGateway
	bookings  *bookingRepo.MemoryBookingRepo
	bookingID string
	winner    string
}

func (g *racingGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	won, err := g.MockGateway.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	g.winner = won.ID
	if _, err := g.bookings.SetOrderID(ctx, g.bookingID, won.ID); err != nil {
		return nil, err
	}
	return g.MockGateway.CreateOrder(ctx, req)
}

func TestCreateOrderLosingRaceResumesStoredOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b, err := h.svc.Submit(ctx, guest, stay("2025-01-01", "2025-01-03"))
	require.NoError(t, err)

	gw := &racingGateway{MockGateway: h.gateway, bookings: h.bookings, bookingID: b.ID}
	h.svc.Gateway = gw

	got, err := h.svc.CreateOrder(ctx, guest.UserID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, gw.winner, got.OrderID)
	assert.Equal(t, "secret_"+gw.winner, got.ClientSecret)
}

func TestApplyOutcomeSuccess(t *testing.T) {
	h := newHarness(t)
	b, orderID := h.pendingWithOrder(t, "2025-01-01", "2025-01-03")

	got, changed, err := h.svc.ApplyOutcome(context.Background(), orderID,
		Outcome{Result: Success, PaymentID: "pay_1", Method: "card", Amount: 2100}, SourceWebhook)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, models.PaymentSuccess, got.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, got.BookingStatus)
	assert.Equal(t, "pay_1", got.RazorpayPaymentID)
	assert.Equal(t, "card", got.PaymentMethod)
	assert.NotNil(t, got.PaidAt)

	assert.Equal(t, []notification.Dispatched{{Kind: notification.KindConfirmed, BookingID: b.ID}}, h.dispatcher.Calls())
}

func TestApplyOutcomeFailure(t *testing.T) {
	h := newHarness(t)
	b, orderID := h.pendingWithOrder(t, "2025-01-01", "2025-01-03")

	got, changed, err := h.svc.ApplyOutcome(context.Background(), orderID, Outcome{Result: Failure, PaymentID: "pay_x"}, SourceReconcile)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, models.BookingCancelled, got.BookingStatus)
	assert.Equal(t, []notification.Dispatched{{Kind: notification.KindFailed, BookingID: b.ID}}, h.dispatcher.Calls())
}

func TestApplyOutcomeReplayIsNoop(t *testing.T) {
	h := newHarness(t)
	_, orderID := h.pendingWithOrder(t, "2025-01-01", "2025-01-03")
	ctx := context.Background()

	_, changed, err := h.svc.ApplyOutcome(ctx, orderID, Outcome{Result: Success, PaymentID: "pay_1"}, SourceWebhook)
	require.NoError(t, err)
	require.True(t, changed)

	got, changed, err := h.svc.ApplyOutcome(ctx, orderID, Outcome{Result: Success, PaymentID: "pay_1"}, SourceReconcile)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.PaymentSuccess, got.PaymentStatus)

	// A late failure does not undo a confirmed booking.
	got, changed, err = h.svc.ApplyOutcome(ctx, orderID, Outcome{Result: Failure}, SourceWebhook)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.PaymentSuccess, got.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, got.BookingStatus)

	assert.Len(t, h.dispatcher.Calls(), 1)
}

func TestApplyOutcomeConcurrentDeliveriesNotifyOnce(t *testing.T) {
	h := newHarness(t)
	_, orderID := h.pendingWithOrder(t, "2025-01-01", "2025-01-03")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = h.svc.ApplyOutcome(context.Background(), orderID, Outcome{Result: Success, PaymentID: "pay_1"}, SourceWebhook)
		}()
	}
	wg.Wait()
	assert.Len(t, h.dispatcher.Calls(), 1)
}

func TestApplyOutcomeUnknownOrder(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.svc.ApplyOutcome(context.Background(), "order_missing", Outcome{Result: Success}, SourceWebhook)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Empty(t, h.dispatcher.Calls())
}

func TestHandleEvent(t *testing.T) {
	h := newHarness(t)
	_, orderID := h.pendingWithOrder(t, "2025-01-01", "2025-01-03")
	ctx := context.Background()

	b, changed, err := h.svc.HandleEvent(ctx, models.PaymentEvent{Type: "refund.created", OrderID: orderID}, SourceWebhook)
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.False(t, changed)

	_, _, err = h.svc.HandleEvent(ctx, models.PaymentEvent{Type: models.EventPaymentCaptured}, SourceWebhook)
	assert.Equal(t, KindNotFound, KindOf(err))

	b, changed, err = h.svc.HandleEvent(ctx, models.PaymentEvent{Type: models.EventOrderPaid, OrderID: orderID, PaymentID: "pay_9"}, SourceWebhook)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "pay_9", b.RazorpayPaymentID)
}

func TestConfirmedOverlapStillConfirms(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, first := h.pendingWithOrder(t, "2025-01-01", "2025-01-03")
	_, second := h.pendingWithOrder(t, "2025-01-02", "2025-01-04")

	_, changed, err := h.svc.ApplyOutcome(ctx, first, Outcome{Result: Success}, SourceWebhook)
	require.NoError(t, err)
	require.True(t, changed)

	got, changed, err := h.svc.ApplyOutcome(ctx, second, Outcome{Result: Success}, SourceWebhook)
	require.NoError(t, err)
	assert.True(t, changed, "both guests paid; the clash is reported, not reverted")
	assert.Equal(t, models.BookingConfirmed, got.BookingStatus)
}
