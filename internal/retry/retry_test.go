package retry_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/retry"
)

var errTransient = errors.New("transient")

func TestDoWithResult_SucceedsAfterRetries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		calls := 0
		start := time.Now()

		got, err := retry.DoWithResult(context.Background(), retry.Fixed(5*time.Second, 10), func() (string, error) {
			calls++
			if calls < 3 {
				return "", retry.Retryable(errTransient)
			}
			return "done", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "done", got)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 10*time.Second, time.Since(start))
	})
}

func TestDoWithResult_ExhaustsAttempts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		calls := 0
		start := time.Now()

		_, err := retry.DoWithResult(context.Background(), retry.Fixed(5*time.Second, 30), func() (int, error) {
			calls++
			return 0, retry.Retryable(errTransient)
		})

		require.ErrorIs(t, err, errTransient)
		assert.False(t, retry.IsRetryable(err))
		assert.Equal(t, 30, calls)
		// No wait after the final attempt.
		assert.Equal(t, 29*5*time.Second, time.Since(start))
	})
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0

	err := retry.Do(context.Background(), retry.DefaultConfig(), func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(time.Second)
			cancel()
		}()

		err := retry.Do(ctx, retry.Fixed(time.Minute, 0), func() error {
			return retry.Retryable(errTransient)
		})

		require.ErrorIs(t, err, context.Canceled)
	})
}
