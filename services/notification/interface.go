package notification

import (
	"context"
	"fmt"

	"homestay/models"
)

// Kind selects which booking email goes out.
type Kind string

const (
	KindConfirmed Kind = "booking_confirmed"
	KindFailed    Kind = "booking_failed"
)

// Dispatcher hands a notification off without waiting for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind Kind, bookingID string) error
}

// Notifier renders and sends the booking emails.
type Notifier interface {
	NotifyConfirmed(ctx context.Context, b *models.Booking) error
	NotifyFailed(ctx context.Context, b *models.Booking) error
}

// BookingLoader fetches the booking a notification is about.
type BookingLoader interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// Deliver loads the booking and sends the email for kind.
func Deliver(ctx context.Context, loader BookingLoader, notifier Notifier, kind Kind, bookingID string) error {
	b, err := loader.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("Deliver: could not load booking %s: %w", bookingID, err)
	}
	switch kind {
	case KindConfirmed:
		return notifier.NotifyConfirmed(ctx, b)
	case KindFailed:
		return notifier.NotifyFailed(ctx, b)
	default:
		return fmt.Errorf("Deliver: unknown notification kind %q", kind)
	}
}
