//go:build !js

package platform

import "github.com/gogpu/ggweb/executor"

// DefaultFrameSource returns a ticker at fps on clock.
func DefaultFrameSource(fps int, clock executor.Clock) FrameSource {
	s := NewTickerSource(fps)
	if clock != nil {
		s.Clock = clock
	}
	return s
}

// asyncHost reports whether GPU setup completes asynchronously.
func asyncHost() bool { return false }

