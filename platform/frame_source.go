package platform

import (
	"sync"
	"time"

	"github.com/gogpu/ggweb/executor"
)

// FrameSource delivers animation frames. Start begins calling fn once per
// frame and returns a function that stops delivery.
type FrameSource interface {
	Start(fn func(now time.Time)) (stop func())
}

// TickerSource delivers frames at a fixed interval on a clock. It serves
// native hosts, which have no display-synchronized callback here.
type TickerSource struct {
	Interval time.Duration
	Clock    executor.Clock
}

// NewTickerSource creates a source at fps frames per second on the system clock.
func NewTickerSource(fps int) *TickerSource {
	if fps <= 0 {
		fps = 60
	}
	return &TickerSource{Interval: time.Second / time.Duration(fps), Clock: executor.SystemClock{}}
}

// Start implements FrameSource.
func (s *TickerSource) Start(fn func(now time.Time)) func() {
	clock := s.Clock
	if clock == nil {
		clock = executor.SystemClock{}
	}
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}

	var (
		mu       sync.Mutex
		timer    executor.Timer
		stopped  bool
		schedule func()
	)
	schedule = func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		timer = clock.AfterFunc(interval, func() {
			mu.Lock()
			done := stopped
			mu.Unlock()
			if done {
				return
			}
			fn(clock.Now())
			schedule()
		})
	}
	schedule()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}
}
