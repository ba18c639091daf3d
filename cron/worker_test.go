package cron

import (
	"context"
	"errors"
	"testing"

	"homestay/models"
	"homestay/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type loader map[string]*models.Booking

func (l loader) GetByID(_ context.Context, id string) (*models.Booking, error) {
	if b, ok := l[id]; ok {
		return b, nil
	}
	return nil, errors.New("not found")
}

type countingNotifier struct{ confirmed, failed int }

func (n *countingNotifier) NotifyConfirmed(context.Context, *models.Booking) error {
	n.confirmed++
	return nil
}

func (n *countingNotifier) NotifyFailed(context.Context, *models.Booking) error {
	n.failed++
	return nil
}

type sweeper struct{ calls int }

func (s *sweeper) ReconcileAll(context.Context) (int, error) {
	s.calls++
	return 3, nil
}

func TestNotificationTaskRoutesByType(t *testing.T) {
	n := &countingNotifier{}
	mux := NewMux(loader{"b-1": {ID: "b-1"}}, n, nil, zap.NewNop())

	task, _, err := tasks.NewBookingConfirmedTask("b-1")
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	task, _, err = tasks.NewBookingFailedTask("b-1")
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	assert.Equal(t, 1, n.confirmed)
	assert.Equal(t, 1, n.failed)
}

func TestMalformedTaskSkipsRetry(t *testing.T) {
	mux := NewMux(loader{}, &countingNotifier{}, nil, zap.NewNop())
	err := mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeBookingConfirmed, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestMissingBookingIsRetried(t *testing.T) {
	mux := NewMux(loader{}, &countingNotifier{}, nil, zap.NewNop())
	task, _, err := tasks.NewBookingConfirmedTask("gone")
	require.NoError(t, err)
	err = mux.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestSweepTask(t *testing.T) {
	s := &sweeper{}
	mux := NewMux(loader{}, &countingNotifier{}, s, zap.NewNop())
	task, _ := tasks.NewReconcileSweepTask(0)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, 1, s.calls)
}

func TestInitReconcileSchedulerDisabled(t *testing.T) {
	s, err := InitReconcileScheduler("")
	assert.NoError(t, err)
	assert.Nil(t, s)

	_, err = InitReconcileScheduler("soon")
	assert.Error(t, err)
}
