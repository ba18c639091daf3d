package booking

import (
	"context"

	"homestay/models"
	"homestay/services/payment"

	"go.uber.org/zap"
)

// CreateOrder opens a gateway order for a pending booking. Repeated calls return the same order.
func (s *DefaultBookingService) CreateOrder(ctx context.Context, userID, bookingID string) (*models.OrderResponse, error) {
	b, err := s.GetBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.IsTerminal() || b.BookingStatus != models.BookingPending {
		return nil, ConflictError("booking %s is already %s", b.ID, b.PaymentStatus)
	}
	if b.RazorpayOrderID != "" {
		return s.resumeOrder(ctx, b)
	}

	order, err := s.Gateway.CreateOrder(ctx, payment.OrderRequest{
		Receipt:  b.ID,
		Amount:   b.TotalAmount,
		Currency: b.Currency,
		Notes: map[string]string{
			"booking_id": b.ID,
			"room_id":    b.RoomID,
			"user_id":    b.UserID,
		},
	})
	if err != nil {
		return nil, UpstreamError(err, "failed to create payment order")
	}

	attached, err := s.Bookings.SetOrderID(ctx, b.ID, order.ID)
	if err != nil {
		return nil, PersistenceError(err, "failed to attach order to booking")
	}
	if !attached {
		// A concurrent call won; hand back the order it stored.
		current, err := s.Bookings.GetByID(ctx, b.ID)
		if err != nil {
			return nil, PersistenceError(err, "failed to reload booking")
		}
		s.logger.Warn("discarding duplicate gateway order",
			zap.String("booking_id", b.ID),
			zap.String("discarded_order_id", order.ID),
			zap.String("order_id", current.RazorpayOrderID))
		return s.resumeOrder(ctx, current)
	}

	s.logger.Info("payment order created",
		zap.String("booking_id", b.ID),
		zap.String("order_id", order.ID),
		zap.String("gateway", s.Gateway.Name()))
	return s.orderResponse(b, order.ID, order.ClientSecret), nil
}

// resumeOrder hands back the order already attached to b.
func (s *DefaultBookingService) resumeOrder(ctx context.Context, b *models.Booking) (*models.OrderResponse, error) {
	order, err := s.Gateway.ResumeOrder(ctx, b.RazorpayOrderID)
	if err != nil {
		return nil, UpstreamError(err, "failed to resume payment order %s", b.RazorpayOrderID)
	}
	return s.orderResponse(b, b.RazorpayOrderID, order.ClientSecret), nil
}

func (s *DefaultBookingService) orderResponse(b *models.Booking, orderID, clientSecret string) *models.OrderResponse {
	return &models.OrderResponse{
		BookingID:    b.ID,
		OrderID:      orderID,
		Amount:       b.TotalAmount,
		Currency:     b.Currency,
		Gateway:      s.Gateway.Name(),
		KeyID:        s.Gateway.KeyID(),
		ClientSecret: clientSecret,
	}
}
