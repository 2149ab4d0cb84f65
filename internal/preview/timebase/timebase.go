// Package timebase holds the two playback primitives every preview component
// reads: whether playback is active and the current position. It carries no
// logic beyond synchronized access.
package timebase

import "sync"

// Timebase is a thread-safe holder for playback state.
type Timebase struct {
	mu       sync.RWMutex
	playing  bool
	position float64
}

// New returns a stopped timebase at position zero.
func New() *Timebase {
	return &Timebase{}
}

// SetPlaying records whether playback is active.
func (t *Timebase) SetPlaying(playing bool) {
	t.mu.Lock()
	t.playing = playing
	t.mu.Unlock()
}

// Playing reports whether playback is active.
func (t *Timebase) Playing() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.playing
}

// SetPosition records the current playback position in seconds. Negative
// values are stored as zero.
func (t *Timebase) SetPosition(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	t.mu.Lock()
	t.position = seconds
	t.mu.Unlock()
}

// Position returns the current playback position in seconds.
func (t *Timebase) Position() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.position
}

// Reset returns the timebase to stopped at position zero.
func (t *Timebase) Reset() {
	t.mu.Lock()
	t.playing = false
	t.position = 0
	t.mu.Unlock()
}
