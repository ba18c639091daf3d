package tasks

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingTaskRoundTrip(t *testing.T) {
	task, opts, err := NewBookingConfirmedTask("b-1")
	require.NoError(t, err)
	assert.Equal(t, TypeBookingConfirmed, task.Type())
	assert.NotEmpty(t, opts)

	p, err := ParseBookingPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "b-1", p.BookingID)
}

func TestBookingTaskRequiresID(t *testing.T) {
	_, _, err := NewBookingFailedTask("")
	assert.Error(t, err)

	_, err = ParseBookingPayload(asynq.NewTask(TypeBookingFailed, []byte(`{}`)))
	assert.Error(t, err)

	_, err = ParseBookingPayload(asynq.NewTask(TypeBookingFailed, []byte(`not json`)))
	assert.Error(t, err)
}
