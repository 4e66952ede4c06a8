package host

import "time"

// WallClock paces ticks to a target frame rate the way the teacher's
// Emulator.RunFrame does (LastFrameTime/FrameTime, sleeping out the
// remainder of each frame), reporting the actual elapsed milliseconds
// since the previous call as DtMs rather than a fixed step.
type WallClock struct {
	frameTime time.Duration
	last      time.Time
}

// NewWallClock builds a clock targeting fps frames per second.
func NewWallClock(fps float64) *WallClock {
	if fps <= 0 {
		fps = 60
	}
	return &WallClock{frameTime: time.Duration(float64(time.Second) / fps), last: time.Now()}
}

// DtMs blocks until frameTime has elapsed since the previous call (or
// the constructor, for the first call), then returns the actual
// elapsed time in milliseconds.
func (c *WallClock) DtMs() int64 {
	elapsed := time.Since(c.last)
	if elapsed < c.frameTime {
		time.Sleep(c.frameTime - elapsed)
		elapsed = time.Since(c.last)
	}
	c.last = time.Now()
	return elapsed.Milliseconds()
}
