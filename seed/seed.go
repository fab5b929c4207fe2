package seed

import (
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// Auto asks for a fresh seed on every call
const Auto int64 = -1

// Source hands out seeds for unseeded generator calls
type Source interface {
	Next() int64
}

// Clock mixes a monotonically increasing counter with wall-clock and monotonic time,
// so calls within the same clock tick still differ.
type Clock struct {
	counter atomic.Uint64
	start   time.Time
	now     func() time.Time
}

// NewClock creates a clock-backed source
func NewClock() *Clock {
	return &Clock{start: time.Now(), now: time.Now}
}

// Next returns a positive 31-bit seed
func (c *Clock) Next() int64 {
	n := c.counter.Add(1)
	t := c.now()
	x := n*0x9E3779B97F4A7C15 ^ uint64(t.UnixMilli()) ^ uint64(t.Sub(c.start).Nanoseconds())<<7
	return int64(splitmix(x) & 0x7fffffff)
}

func splitmix(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

var defaultSource atomic.Pointer[Source]

func init() {
	var s Source = NewClock()
	defaultSource.Store(&s)
}

// SetDefault replaces the source used for Auto seeds
func SetDefault(s Source) {
	defaultSource.Store(&s)
}

// Default returns the source used for Auto seeds
func Default() Source {
	return *defaultSource.Load()
}

// Resolve returns seed unchanged unless it is negative, in which case a fresh one is drawn
func Resolve(seed int64) int64 {
	if seed >= 0 {
		return seed
	}
	return Default().Next()
}

// New returns a generator for an already resolved seed
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x6a09e667f3bcc909))
}

// Pct reports true with probability pct/100
func Pct(r *rand.Rand, pct int) bool {
	if pct <= 0 {
		return false
	}
	return r.IntN(100) < pct
}

// Chance reports true with probability p
func Chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

// Between returns a uniform int in [lo,hi]
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Fixed always returns the same seed; useful in tests
type Fixed int64

// Next returns the fixed seed
func (f Fixed) Next() int64 {
	return int64(f)
}
