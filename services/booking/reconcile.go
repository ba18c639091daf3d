package booking

import (
	"context"
	"errors"
	"sync/atomic"

	"homestay/database"
	"homestay/models"
	"homestay/services/payment"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reconcile re-checks the caller's recent payment-pending bookings against the gateway and
// applies whatever it reports. One booking failing never stops the others; the count of bookings
// this call changed is returned.
func (s *DefaultBookingService) Reconcile(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, AuthError("user id is required")
	}

	since := s.now().Add(-s.opts.ReconcileWindow)
	pending, err := s.Bookings.ListPendingByUser(ctx, userID, since)
	if err != nil {
		return 0, PersistenceError(err, "failed to list pending bookings")
	}

	var updated int64
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)

	for _, b := range pending {
		if b.RazorpayOrderID == "" {
			continue
		}
		g.Go(func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil
			}
			changed, err := s.reconcileOne(ctx, &b)
			if err != nil {
				s.logger.Warn("reconcile skipped booking",
					zap.String("booking_id", b.ID),
					zap.String("order_id", b.RazorpayOrderID),
					zap.String("kind", string(KindOf(err))),
					zap.Error(err))
				return nil
			}
			if changed {
				atomic.AddInt64(&updated, 1)
			}
			return nil
		})
	}
	_ = g.Wait()

	n := int(atomic.LoadInt64(&updated))
	s.logger.Info("reconcile finished",
		zap.String("user_id", userID),
		zap.Int("pending", len(pending)),
		zap.Int("updated", n))
	return n, ctx.Err()
}

func (s *DefaultBookingService) reconcileOne(ctx context.Context, b *models.Booking) (bool, error) {
	st, err := s.Gateway.FetchStatus(ctx, b.RazorpayOrderID)
	if err != nil {
		return false, UpstreamError(err, "failed to verify order %s", b.RazorpayOrderID)
	}

	var o Outcome
	switch st.Status {
	case models.GatewayCaptured:
		o = Outcome{Result: Success, PaymentID: st.PaymentID, Method: st.Method, Amount: st.Amount}
	case models.GatewayFailed:
		o = Outcome{Result: Failure, PaymentID: st.PaymentID, Method: st.Method}
	default:
		return false, nil
	}

	_, changed, err := s.ApplyOutcome(ctx, b.RazorpayOrderID, o, SourceReconcile)
	return changed, err
}

// ReconcileAll sweeps every user holding a recent payment-pending booking.
func (s *DefaultBookingService) ReconcileAll(ctx context.Context) (int, error) {
	since := s.now().Add(-s.opts.ReconcileWindow)
	users, err := s.Bookings.ListPendingUsers(ctx, since)
	if err != nil {
		return 0, PersistenceError(err, "failed to list users with pending bookings")
	}

	total := 0
	for _, userID := range users {
		n, err := s.Reconcile(ctx, userID)
		total += n
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			s.logger.Warn("reconcile failed for user", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return total, nil
}

// VerifyPayment asks the gateway for the authoritative state of an order without changing the booking.
func (s *DefaultBookingService) VerifyPayment(ctx context.Context, userID string, isAdmin bool, orderID string) (*models.PaymentVerification, error) {
	if orderID == "" {
		return nil, ValidationError("order id is required")
	}
	b, err := s.Bookings.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundError("order %s not found", orderID)
		}
		return nil, PersistenceError(err, "failed to load booking for order %s", orderID)
	}
	if !isAdmin && b.UserID != userID {
		return nil, NotFoundError("order %s not found", orderID)
	}

	st, err := s.Gateway.FetchStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, payment.ErrOrderNotFound) {
			return nil, NotFoundError("order %s is unknown to the gateway", orderID)
		}
		return nil, UpstreamError(err, "failed to verify order %s", orderID)
	}
	return &models.PaymentVerification{Success: true, Status: st.Status, PaymentID: st.PaymentID}, nil
}
