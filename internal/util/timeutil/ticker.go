package timeutil

import "time"

// Ticker is the part of time.Ticker that pollers depend on.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type NewTickerFunc func(d time.Duration) Ticker

var _ Ticker = (*timeTicker)(nil)

type timeTicker struct {
	ticker *time.Ticker
}

// NewTicker returns a Ticker backed by time.NewTicker.
func NewTicker(d time.Duration) Ticker {
	return &timeTicker{ticker: time.NewTicker(d)}
}

func (t *timeTicker) Chan() <-chan time.Time {
	return t.ticker.C
}

func (t *timeTicker) Stop() {
	t.ticker.Stop()
}
