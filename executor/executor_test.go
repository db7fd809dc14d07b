package executor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestWebExecutorBlockFailsFast(t *testing.T) {
	e := NewWebExecutor(NewDispatcher(NewManualClock(epoch)))

	var ran atomic.Bool
	task := func(context.Context) (any, error) {
		ran.Store(true)
		return 1, nil
	}

	start := time.Now()
	v, err := e.Block(context.Background(), task)
	assert.Nil(t, v)
	require.ErrorIs(t, err, ErrBlockingNotSupported)

	var bns *BlockingNotSupportedError
	require.True(t, errors.As(err, &bns))
	assert.Equal(t, "Block", bns.Call)
	assert.Contains(t, err.Error(), "Block")
	assert.Contains(t, err.Error(), "Spawn")

	v, err = e.BlockWithTimeout(context.Background(), time.Hour, task)
	assert.Nil(t, v)
	require.ErrorIs(t, err, ErrBlockingNotSupported)
	require.True(t, errors.As(err, &bns))
	assert.Equal(t, "BlockWithTimeout", bns.Call)

	assert.Less(t, time.Since(start), time.Second, "must not wait for the timeout")
	assert.False(t, ran.Load(), "task must not run")
	assert.Equal(t, 0, e.Pending(), "state must be untouched")
}

func TestAwaitOnWebExecutor(t *testing.T) {
	e := NewWebExecutor(nil)
	_, err := Await(context.Background(), e, func(context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrBlockingNotSupported)
}

func TestNativeExecutorBlock(t *testing.T) {
	e := NewNativeExecutor(nil)

	v, err := e.Block(context.Background(), func(context.Context) (any, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", v)

	n, err := Await(context.Background(), e, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	boom := errors.New("boom")
	_, err = e.Block(context.Background(), func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestNativeExecutorBlockWithTimeout(t *testing.T) {
	e := NewNativeExecutor(nil)

	_, err := e.BlockWithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "did not finish")

	v, err := e.BlockWithTimeout(context.Background(), time.Second, func(context.Context) (any, error) {
		return 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestAwaitTypeMismatch(t *testing.T) {
	e := NewNativeExecutor(nil)
	_, err := Await(context.Background(), e, func(context.Context) (error, error) {
		return nil, nil
	})
	assert.NoError(t, err)

	_, err = Await[string](context.Background(), badExecutor{e}, func(context.Context) (string, error) {
		return "x", nil
	})
	assert.ErrorIs(t, err, ErrUnexpectedResult)
}

// badExecutor returns a result of the wrong type.
type badExecutor struct{ *NativeExecutor }

func (badExecutor) Block(context.Context, Task) (any, error) { return 42, nil }

func TestDispatcherMainQueueFIFO(t *testing.T) {
	d := NewDispatcher(NewManualClock(epoch))

	var wakes int
	d.SetWake(func() { wakes++ })

	var order []int
	for i := range 3 {
		d.DispatchOnMain(func() {
			order = append(order, i)
			if i == 0 {
				d.DispatchOnMain(func() { order = append(order, 99) })
			}
		})
	}
	assert.Equal(t, 3, d.Pending())
	assert.Equal(t, 3, wakes)

	assert.Equal(t, 3, d.RunMainQueue())
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, 1, d.RunMainQueue())
	assert.Equal(t, []int{0, 1, 2, 99}, order)
	assert.Equal(t, 0, d.RunMainQueue())
}

func TestDispatcherSurvivesPanics(t *testing.T) {
	d := NewDispatcher(NewManualClock(epoch))
	ran := false
	d.DispatchOnMain(func() { panic("bad task") })
	d.DispatchOnMain(func() { ran = true })

	assert.NotPanics(t, func() { d.RunMainQueue() })
	assert.True(t, ran)
}

func TestDispatcherSpawnAfter(t *testing.T) {
	clock := NewManualClock(epoch)
	d := NewDispatcher(clock)

	var fired []string
	d.SpawnAfter(20*time.Millisecond, func() { fired = append(fired, "late") })
	d.SpawnAfter(10*time.Millisecond, func() { fired = append(fired, "early") })
	cancel := d.SpawnAfter(15*time.Millisecond, func() { fired = append(fired, "cancelled") })
	assert.True(t, cancel())
	assert.False(t, cancel())

	clock.Advance(5 * time.Millisecond)
	d.RunMainQueue()
	assert.Empty(t, fired)

	clock.Advance(20 * time.Millisecond)
	d.RunMainQueue()
	assert.Equal(t, []string{"early", "late"}, fired)
	assert.Equal(t, epoch.Add(25*time.Millisecond), d.Now())
}

func TestDispatcherSpawn(t *testing.T) {
	d := NewDispatcher(SystemClock{})
	done := make(chan struct{})
	d.Spawn(func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("spawned function did not run")
	}
}
