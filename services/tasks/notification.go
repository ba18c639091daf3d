package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmed = "notification:booking_confirmed"
	TypeBookingFailed    = "notification:booking_failed"
	TypeReconcileSweep   = "reconcile:sweep"
)

// BookingPayload names the booking a notification task is for.
type BookingPayload struct {
	BookingID string `json:"booking_id"`
}

func NewBookingConfirmedTask(bookingID string) (*asynq.Task, []asynq.Option, error) {
	return newBookingTask(TypeBookingConfirmed, bookingID)
}

func NewBookingFailedTask(bookingID string) (*asynq.Task, []asynq.Option, error) {
	return newBookingTask(TypeBookingFailed, bookingID)
}

func newBookingTask(typ, bookingID string) (*asynq.Task, []asynq.Option, error) {
	if bookingID == "" {
		return nil, nil, fmt.Errorf("%s: booking id is required", typ)
	}
	b, err := json.Marshal(BookingPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(typ, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(2 * time.Minute)}

	return task, opts, nil
}

// ParseBookingPayload decodes a notification task payload.
func ParseBookingPayload(t *asynq.Task) (BookingPayload, error) {
	var p BookingPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	if p.BookingID == "" {
		return p, fmt.Errorf("invalid %s payload: missing booking id", t.Type())
	}
	return p, nil
}

// NewReconcileSweepTask sweeps every user with pending bookings. Only one sweep is queued at a time.
func NewReconcileSweepTask(interval time.Duration) (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeReconcileSweep, nil)
	opts := []asynq.Option{asynq.MaxRetry(0)}
	if interval > 0 {
		opts = append(opts, asynq.Unique(interval))
	}
	return task, opts
}
