package timeutil

import (
	"sync"
	"time"
)

var _ Ticker = (*FakeTicker)(nil)

// FakeTicker fires only when Tick is called. Ticks are buffered so tests can
// queue them before the poller starts reading.
type FakeTicker struct {
	ch chan time.Time

	mu       sync.Mutex
	interval time.Duration
	created  int
	stopped  bool
}

func NewFakeTicker(buffer int) *FakeTicker {
	return &FakeTicker{ch: make(chan time.Time, buffer)}
}

func (t *FakeTicker) Chan() <-chan time.Time {
	return t.ch
}

func (t *FakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
}

func (t *FakeTicker) Tick() {
	t.ch <- time.Now()
}

// Stopped reports whether Stop was called since the ticker was last handed
// out by NewTickerFunc.
func (t *FakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopped
}

// Interval returns the duration the ticker was last requested with.
func (t *FakeTicker) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.interval
}

// Created returns how many times NewTickerFunc handed out the ticker.
func (t *FakeTicker) Created() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.created
}

// NewTickerFunc always returns t.
func (t *FakeTicker) NewTickerFunc() NewTickerFunc {
	return func(d time.Duration) Ticker {
		t.mu.Lock()
		defer t.mu.Unlock()

		t.interval = d
		t.created++
		t.stopped = false

		return t
	}
}
