package cron

import (
	"context"
	"fmt"
	"time"

	"homestay/config"
	"homestay/services/notification"
	"homestay/services/tasks"
	"homestay/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Sweeper reconciles every user holding recent payment-pending bookings.
type Sweeper interface {
	ReconcileAll(ctx context.Context) (int, error)
}

// RedisOpt is the asynq connection built from config.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes queued tasks to their handlers.
func NewMux(loader notification.BookingLoader, notifier notification.Notifier, sweeper Sweeper, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmed, handleNotificationTask(notification.KindConfirmed, loader, notifier, logger))
	mux.HandleFunc(tasks.TypeBookingFailed, handleNotificationTask(notification.KindFailed, loader, notifier, logger))
	if sweeper != nil {
		mux.HandleFunc(tasks.TypeReconcileSweep, handleSweepTask(sweeper, logger))
	}
	return mux
}

// InitNotificationWorker runs the async worker in background. The returned server is
// shut down by the caller.
func InitNotificationWorker(loader notification.BookingLoader, notifier notification.Notifier, sweeper Sweeper) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := NewMux(loader, notifier, sweeper, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || err == asynq.ErrServerClosed {
				return
			}
			logger.Error("notification worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("notification worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// InitReconcileScheduler enqueues a sweep every interval. It returns nil when no interval is set.
func InitReconcileScheduler(interval string) (*asynq.Scheduler, error) {
	if interval == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("InitReconcileScheduler: invalid RECONCILE_INTERVAL %q: %w", interval, err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("InitReconcileScheduler: RECONCILE_INTERVAL must be positive, got %q", interval)
	}

	logger := utils.GetLogger()
	scheduler := asynq.NewScheduler(RedisOpt(), &asynq.SchedulerOpts{Location: time.UTC})
	task, opts := tasks.NewReconcileSweepTask(d)
	entryID, err := scheduler.Register("@every "+d.String(), task, opts...)
	if err != nil {
		return nil, fmt.Errorf("InitReconcileScheduler: failed to register sweep: %w", err)
	}
	logger.Info("reconcile sweep scheduled", zap.String("entry_id", entryID), zap.Duration("interval", d))

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("reconcile scheduler stopped", zap.Error(err))
		}
	}()
	return scheduler, nil
}

func handleNotificationTask(kind notification.Kind, loader notification.BookingLoader, notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseBookingPayload(task)
		if err != nil {
			logger.Error("dropping notification task", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		if err := notification.Deliver(ctx, loader, notifier, kind, p.BookingID); err != nil {
			logger.Error("notification delivery failed",
				zap.String("kind", string(kind)),
				zap.String("booking_id", p.BookingID),
				zap.Error(err))
			return err
		}
		return nil
	}
}

func handleSweepTask(sweeper Sweeper, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := sweeper.ReconcileAll(ctx)
		if err != nil {
			logger.Error("reconcile sweep failed", zap.Int("updated", n), zap.Error(err))
			return err
		}
		logger.Info("reconcile sweep finished", zap.Int("updated", n))
		return nil
	}
}
