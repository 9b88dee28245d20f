package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsWithoutRetryOnFirstTry(t *testing.T) {
	calls := 0

	err := withRetry(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RetriesTransientErrorUpToMaxAttempts(t *testing.T) {
	calls := 0
	transient := errors.New("connection reset")

	err := withRetry(context.Background(), func() error {
		calls++
		return transient
	})

	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls, "должно быть ровно maxAttempts попыток для непрекращающейся сетевой ошибки")
}

func TestWithRetry_StopsImmediatelyOnPermanentStatus(t *testing.T) {
	calls := 0

	err := withRetry(context.Background(), func() error {
		calls++
		return nonRetryableStatus(404)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx не должен повторяться")
}

func TestWithRetry_StopsOnContextCancellation(t *testing.T) {
	calls := 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error {
		calls++
		return context.Canceled
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0

	err := withRetry(context.Background(), func() error {
		calls++
		if calls < maxAttempts {
			return errors.New("temporary")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, maxAttempts, calls)
}

func TestWithRetryN_RespectsExplicitAttemptCount(t *testing.T) {
	calls := 0

	err := withRetryN(context.Background(), 5, func() error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 5, calls)
}
