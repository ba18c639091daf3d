package booking

import (
	"context"
	"errors"

	"homestay/database"
	bookingRepo "homestay/database/repository/booking"
	"homestay/models"
	"homestay/services/notification"

	"go.uber.org/zap"
)

// Result is the resolved side of a payment.
type Result int

const (
	Success Result = iota + 1
	Failure
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is what a webhook or a sweep learned about an order.
type Outcome struct {
	Result    Result
	PaymentID string
	Method    string
	Amount    float64
}

// Trigger sources, recorded in logs.
const (
	SourceWebhook   = "webhook"
	SourceReconcile = "reconcile"
)

func (s *DefaultBookingService) transitionFor(o Outcome) (bookingRepo.Transition, error) {
	switch o.Result {
	case Success:
		paidAt := s.now()
		return bookingRepo.Transition{
			PaymentStatus: models.PaymentSuccess,
			BookingStatus: models.BookingConfirmed,
			PaymentID:     o.PaymentID,
			Method:        o.Method,
			AmountPaid:    o.Amount,
			PaidAt:        &paidAt,
		}, nil
	case Failure:
		return bookingRepo.Transition{
			PaymentStatus: models.PaymentFailed,
			BookingStatus: models.BookingCancelled,
			PaymentID:     o.PaymentID,
			Method:        o.Method,
		}, nil
	default:
		return bookingRepo.Transition{}, ValidationError("unknown payment outcome")
	}
}

// ApplyOutcome moves the booking behind orderID out of pending. It is the only writer of
// payment state and is safe to repeat: only the call that changed the row dispatches a notification.
func (s *DefaultBookingService) ApplyOutcome(ctx context.Context, orderID string, o Outcome, source string) (*models.Booking, bool, error) {
	if orderID == "" {
		return nil, false, ValidationError("order id is required")
	}
	t, err := s.transitionFor(o)
	if err != nil {
		return nil, false, err
	}

	log := s.logger.With(
		zap.String("order_id", orderID),
		zap.String("source", source),
		zap.String("outcome", o.Result.String()))

	b, changed, err := s.Bookings.TransitionByOrderID(ctx, orderID, t)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, false, NotFoundError("no booking for order %s", orderID)
		}
		return nil, false, PersistenceError(err, "failed to update booking for order %s", orderID)
	}

	if !changed {
		if b.PaymentStatus != t.PaymentStatus {
			log.Warn("payment outcome conflicts with resolved booking",
				zap.String("booking_id", b.ID),
				zap.String("payment_status", string(b.PaymentStatus)))
		} else {
			log.Debug("payment outcome already applied", zap.String("booking_id", b.ID))
		}
		return b, false, nil
	}

	log.Info("booking payment resolved",
		zap.String("booking_id", b.ID),
		zap.String("payment_status", string(b.PaymentStatus)),
		zap.String("booking_status", string(b.BookingStatus)))

	kind := notification.KindConfirmed
	if o.Result == Success {
		s.checkDoubleBooking(ctx, b)
	} else {
		kind = notification.KindFailed
	}
	if s.Dispatcher != nil {
		if err := s.Dispatcher.Dispatch(ctx, kind, b.ID); err != nil {
			log.Error("failed to dispatch booking notification", zap.String("booking_id", b.ID), zap.Error(err))
		}
	}
	return b, true, nil
}

// checkDoubleBooking reports a confirmed stay that collides with another confirmed stay.
// Both guests have paid at this point, so the clash is left for the operator.
func (s *DefaultBookingService) checkDoubleBooking(ctx context.Context, b *models.Booking) {
	others, err := s.Bookings.ListConfirmedForRoom(ctx, b.RoomID, b.CheckInDate, b.CheckOutDate)
	if err != nil {
		s.logger.Warn("overlap check after confirmation failed", zap.String("booking_id", b.ID), zap.Error(err))
		return
	}
	for _, other := range others {
		if other.ID == b.ID {
			continue
		}
		if Overlaps(other, b.CheckInDate, b.CheckOutDate, b.CheckInTime, *s.opts.CheckoutHour) {
			s.logger.Error("double booking detected",
				zap.String("booking_id", b.ID),
				zap.String("conflicting_booking_id", other.ID),
				zap.String("room_id", b.RoomID))
		}
	}
}

// HandleEvent maps a verified gateway event onto the shared transition.
// Event types that carry no payment outcome are ignored and report (nil, false, nil).
func (s *DefaultBookingService) HandleEvent(ctx context.Context, ev models.PaymentEvent, source string) (*models.Booking, bool, error) {
	var result Result
	switch ev.Type {
	case models.EventPaymentCaptured, models.EventOrderPaid:
		result = Success
	case models.EventPaymentFailed:
		result = Failure
	default:
		s.logger.Info("ignoring gateway event", zap.String("type", ev.Type), zap.String("source", source))
		return nil, false, nil
	}
	if ev.OrderID == "" {
		return nil, false, NotFoundError("event %s carried no order id", ev.Type)
	}
	return s.ApplyOutcome(ctx, ev.OrderID, Outcome{
		Result:    result,
		PaymentID: ev.PaymentID,
		Method:    ev.Method,
		Amount:    ev.Amount,
	}, source)
}
