package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClockOrdersTimers(t *testing.T) {
	c := NewManualClock(epoch)
	var got []time.Duration

	record := func() { got = append(got, c.Now().Sub(epoch)) }
	c.AfterFunc(30*time.Millisecond, record)
	c.AfterFunc(10*time.Millisecond, func() {
		record()
		// Chained timer due inside the same advance.
		c.AfterFunc(5*time.Millisecond, record)
	})
	c.AfterFunc(0, record)

	c.Advance(40 * time.Millisecond)
	assert.Equal(t, []time.Duration{0, 10 * time.Millisecond, 15 * time.Millisecond, 30 * time.Millisecond}, got)
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, epoch.Add(40*time.Millisecond), c.Now())
}

func TestManualClockStop(t *testing.T) {
	c := NewManualClock(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	assert.Equal(t, 1, c.Pending())
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)

	t2 := c.AfterFunc(time.Millisecond, func() {})
	c.Advance(time.Millisecond)
	assert.False(t, t2.Stop(), "already fired")
}

func TestSystemClockAfterFunc(t *testing.T) {
	done := make(chan struct{})
	SystemClock{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}
	assert.WithinDuration(t, time.Now(), DefaultClock().Now(), time.Second)
}
