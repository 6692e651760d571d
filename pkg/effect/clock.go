package effect

import (
	"sync"
	"time"
)

// Clock schedules periodic callbacks.
type Clock interface {
	Now() time.Time
	// Every calls fn once per interval until stop is called. Calls never overlap.
	Every(interval time.Duration, fn func(now time.Time)) (stop func())
}

// ManualClock is a clock that only moves when told to. Its ticks fire on the
// goroutine that calls Advance.
type ManualClock interface {
	Clock
	Advance(d time.Duration)
}

// SystemClock is the wall clock. Ticks fire on their own goroutine.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Every(interval time.Duration, fn func(time.Time)) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// TestClock is a manually driven clock. Ticks fire synchronously from Advance,
// ordered by due time and then by registration order.
type TestClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*testTimer
}

type testTimer struct {
	seq      uint64
	due      time.Time
	interval time.Duration
	fn       func(time.Time)
	stopped  bool
}

// NewTestClock starts at a fixed instant.
func NewTestClock() *TestClock {
	return &TestClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *TestClock) Every(interval time.Duration, fn func(time.Time)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &testTimer{seq: c.seq, due: c.now.Add(interval), interval: interval, fn: fn}
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.stopped = true
		c.prune()
	}
}

// Advance moves time forward by d, firing every tick that falls due on the way.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.next(target)
		if next == nil {
			break
		}
		c.now = next.due
		next.due = next.due.Add(next.interval)
		now := c.now
		c.mu.Unlock()
		next.fn(now)
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Pending reports how many timers are still scheduled.
func (c *TestClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *TestClock) next(limit time.Time) *testTimer {
	var best *testTimer
	for _, t := range c.timers {
		if t.stopped || t.due.After(limit) || t.interval <= 0 {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *TestClock) prune() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
}
