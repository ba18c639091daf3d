package notification

import (
	"context"
	"fmt"
	"sync"

	"homestay/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher queues notifications for the worker.
type AsynqDispatcher struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewAsynqDispatcher(client *asynq.Client, logger *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{client: client, logger: logger}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, kind Kind, bookingID string) error {
	var (
		task *asynq.Task
		opts []asynq.Option
		err  error
	)
	switch kind {
	case KindConfirmed:
		task, opts, err = tasks.NewBookingConfirmedTask(bookingID)
	case KindFailed:
		task, opts, err = tasks.NewBookingFailedTask(bookingID)
	default:
		return fmt.Errorf("Dispatch: unknown notification kind %q", kind)
	}
	if err != nil {
		return err
	}

	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("Dispatch: failed to enqueue %s for booking %s: %w", kind, bookingID, err)
	}
	d.logger.Debug("notification queued",
		zap.String("kind", string(kind)),
		zap.String("booking_id", bookingID),
		zap.String("task_id", info.ID))
	return nil
}

// InProcessDispatcher delivers on a background goroutine. Delivery outlives the request
// that triggered it; Wait blocks until every pending delivery has finished.
type InProcessDispatcher struct {
	loader   BookingLoader
	notifier Notifier
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewInProcessDispatcher(loader BookingLoader, notifier Notifier, logger *zap.Logger) *InProcessDispatcher {
	return &InProcessDispatcher{loader: loader, notifier: notifier, logger: logger}
}

func (d *InProcessDispatcher) Dispatch(ctx context.Context, kind Kind, bookingID string) error {
	if kind != KindConfirmed && kind != KindFailed {
		return fmt.Errorf("Dispatch: unknown notification kind %q", kind)
	}
	bg := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := Deliver(bg, d.loader, d.notifier, kind, bookingID); err != nil {
			d.logger.Error("notification delivery failed",
				zap.String("kind", string(kind)),
				zap.String("booking_id", bookingID),
				zap.Error(err))
		}
	}()
	return nil
}

func (d *InProcessDispatcher) Wait() { d.wg.Wait() }

// RecordingDispatcher records dispatches without delivering them.
type RecordingDispatcher struct {
	mu    sync.Mutex
	calls []Dispatched
}

type Dispatched struct {
	Kind      Kind
	BookingID string
}

func (d *RecordingDispatcher) Dispatch(_ context.Context, kind Kind, bookingID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Dispatched{Kind: kind, BookingID: bookingID})
	return nil
}

func (d *RecordingDispatcher) Calls() []Dispatched {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Dispatched, len(d.calls))
	copy(out, d.calls)
	return out
}
