package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpool-service/src/internal/gateway/scheduler"
	"carpool-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type expirerMock struct {
	mock.Mock
}

func (m *expirerMock) ExpireIfIdle(ctx context.Context, negotiationID string, version int) error {
	return m.Called(ctx, negotiationID, version).Error(0)
}

func TestProcessTaskExpiresScheduledVersion(t *testing.T) {
	expirer := new(expirerMock)
	expirer.On("ExpireIfIdle", mock.Anything, "n-1", 3).Return(nil).Once()
	h := NewExpiryHandler(expirer, log.Discard())

	task, _, err := scheduler.NewExpiryTask(scheduler.ExpiryPayload{NegotiationID: "n-1", Version: 3}, testFireAt, "default")
	require.NoError(t, err)

	assert.NoError(t, h.ProcessTask(context.Background(), task))
	expirer.AssertExpectations(t)
}

func TestProcessTaskSkipsRetryOnBadPayload(t *testing.T) {
	expirer := new(expirerMock)
	h := NewExpiryHandler(expirer, log.Discard())

	err := h.ProcessTask(context.Background(), asynq.NewTask(scheduler.TypeNegotiationExpire, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	expirer.AssertNotCalled(t, "ExpireIfIdle", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessTaskRetriesStoreFailures(t *testing.T) {
	expirer := new(expirerMock)
	expirer.On("ExpireIfIdle", mock.Anything, "n-1", 0).Return(errors.New("db down"))
	h := NewExpiryHandler(expirer, log.Discard())

	task, _, err := scheduler.NewExpiryTask(scheduler.ExpiryPayload{NegotiationID: "n-1"}, testFireAt, "default")
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), task)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestRegisterRoutesExpiryTasks(t *testing.T) {
	expirer := new(expirerMock)
	expirer.On("ExpireIfIdle", mock.Anything, "n-2", 1).Return(nil).Once()
	mux := asynq.NewServeMux()
	NewExpiryHandler(expirer, log.Discard()).Register(mux)

	task, _, err := scheduler.NewExpiryTask(scheduler.ExpiryPayload{NegotiationID: "n-2", Version: 1}, testFireAt, "default")
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	expirer.AssertExpectations(t)
}

var testFireAt = time.Date(2026, 5, 5, 8, 0, 0, 0, time.UTC)
