package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_SerializesSameName(t *testing.T) {
	t.Parallel()

	l := NewLocker()
	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.RunSerialized(context.Background(), "account:1", func(context.Context) error {
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Empty(t, l.locks, "released names are forgotten")
}

func TestLocker_DifferentNamesRunConcurrently(t *testing.T) {
	t.Parallel()

	l := NewLocker()
	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = l.RunSerialized(context.Background(), "account:1", func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	done := make(chan error, 1)
	go func() {
		done <- l.RunSerialized(context.Background(), "account:2", func(context.Context) error { return nil })
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second name blocked by first")
	}
	close(release)
}

func TestLocker_ContextCancelledWhileWaiting(t *testing.T) {
	t.Parallel()

	l := NewLocker()
	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.RunSerialized(context.Background(), "k", func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := l.RunSerialized(ctx, "k", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}

func TestLocker_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := NewLocker().RunSerialized(context.Background(), "k", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
