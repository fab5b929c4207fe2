package capture

import (
	"math"
	"sync/atomic"
)

// Ring is a fixed-capacity mono sample ring with a single writer (the audio
// callback) and a single reader (the control thread). The writer never locks
// and never allocates; the reader should snapshot only after Stop, or accept
// slightly stale samples while capture runs.
//
// Cursor and valid length both derive from one counter so a reader never
// sees a wrapped cursor paired with a pre-wrap length.
type Ring struct {
	buf       []float32
	written   atomic.Int64 // samples written since Start
	capturing atomic.Bool
}

// NewRing allocates a ring holding capacity samples
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]float32, max(0, capacity))}
}

// Cap returns the capacity in samples
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Len returns the number of valid samples
func (r *Ring) Len() int {
	_, n := r.position(r.written.Load())
	return n
}

// position splits a written count into the next write index and the valid length
func (r *Ring) position(written int64) (cursor, valid int) {
	size := int64(len(r.buf))
	if size == 0 {
		return 0, 0
	}
	return int(written % size), int(min(written, size))
}

// Capturing reports whether writes are accepted
func (r *Ring) Capturing() bool {
	return r.capturing.Load()
}

// Start clears the ring, rewinds the cursor and accepts writes
func (r *Ring) Start() {
	r.capturing.Store(false)
	clear(r.buf)
	r.written.Store(0)
	r.capturing.Store(true)
}

// Stop freezes the ring; contents and valid length are kept
func (r *Ring) Stop() {
	r.capturing.Store(false)
}

// Write appends mono samples, wrapping over the oldest ones
func (r *Ring) Write(samples []float32) int {
	if !r.capturing.Load() || len(r.buf) == 0 {
		return 0
	}
	w := r.written.Load()
	c, _ := r.position(w)
	for _, s := range samples {
		r.buf[c] = s
		c++
		if c == len(r.buf) {
			c = 0
		}
	}
	r.written.Store(w + int64(len(samples)))
	return len(samples)
}

// WriteMix averages n frames across channels into mono and appends them
func (r *Ring) WriteMix(channels [][]float32, n int) int {
	if !r.capturing.Load() || len(r.buf) == 0 || len(channels) == 0 {
		return 0
	}
	for _, ch := range channels {
		n = min(n, len(ch))
	}
	scale := 1 / float32(len(channels))
	w := r.written.Load()
	c, _ := r.position(w)
	for i := 0; i < n; i++ {
		var s float32
		for _, ch := range channels {
			s += ch[i]
		}
		r.buf[c] = s * scale
		c++
		if c == len(r.buf) {
			c = 0
		}
	}
	r.written.Store(w + int64(n))
	return n
}

// Snapshot copies the valid samples, oldest first, into dst (grown as needed)
func (r *Ring) Snapshot(dst []float32) []float32 {
	c, n := r.position(r.written.Load())
	dst = dst[:0]
	if n == 0 {
		return dst
	}
	if n < len(r.buf) {
		return append(dst, r.buf[c-n:c]...)
	}
	dst = append(dst, r.buf[c:]...)
	return append(dst, r.buf[:c]...)
}

// Level returns the RMS of the most recent window samples, for a live meter
func (r *Ring) Level(window int) float32 {
	c, valid := r.position(r.written.Load())
	n := min(window, valid)
	if n <= 0 {
		return 0
	}
	var sum float64
	for i := 1; i <= n; i++ {
		idx := c - i
		if idx < 0 {
			idx += len(r.buf)
		}
		s := float64(r.buf[idx])
		sum += s * s
	}
	return float32(math.Sqrt(sum / float64(n)))
}
