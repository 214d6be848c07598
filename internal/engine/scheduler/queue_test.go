package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/engine/scheduler"
)

func TestQueue_RunsInOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := scheduler.NewQueue(nil)
		defer q.Close()

		var mu sync.Mutex
		var order []string
		record := func(name string, d time.Duration) scheduler.Task {
			return func(context.Context) error {
				time.Sleep(d)
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				return nil
			}
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, q.Submit(context.Background(), record("first", time.Second)))
		}()
		synctest.Wait()
		go func() {
			defer wg.Done()
			assert.NoError(t, q.Submit(context.Background(), record("second", 0)))
		}()
		synctest.Wait()
		assert.True(t, q.Busy())

		wg.Wait()
		assert.Equal(t, []string{"first", "second"}, order)
		assert.False(t, q.Busy())
	})
}

func TestQueue_FailureIsolated(t *testing.T) {
	var reported []error
	q := scheduler.NewQueue(func(err error) { reported = append(reported, err) })
	defer q.Close()

	boom := errors.New("boom")
	err := q.Submit(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	ran := false
	err = q.Submit(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []error{boom}, reported)
}

func TestQueue_SubmitContextCanceled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := scheduler.NewQueue(nil)
		defer q.Close()

		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		go func() {
			_ = q.Submit(context.Background(), func(context.Context) error {
				<-release
				return nil
			})
		}()
		synctest.Wait()

		errc := make(chan error, 1)
		go func() {
			errc <- q.Submit(ctx, func(context.Context) error { return nil })
		}()
		synctest.Wait()
		cancel()

		assert.ErrorIs(t, <-errc, context.Canceled)
		close(release)
	})
}

func TestQueue_Closed(t *testing.T) {
	q := scheduler.NewQueue(nil)
	q.Close()
	q.Close()

	err := q.Submit(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, domain.ErrQueueClosed)
}
