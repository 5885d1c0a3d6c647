package framework

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultTicksPerSecond is the default timer rate. It is coarse enough
// for 32-bit timestamps and faster than any sampling rate used.
const DefaultTicksPerSecond uint32 = 10000

// MaxCatchUpTicks bounds how many missed ticks are replayed after the
// host scheduler delayed the timer.
const MaxCatchUpTicks = 64

// Ticker is the timer driver. It keeps the free-running tick counter
// and calls Handler once per tick.
type Ticker struct {
	TicksPerSecond uint32
	Handler        ISRHandler

	count uint32
}

// NewTicker creates a Ticker driving handler.
func NewTicker(ticksPerSecond uint32, handler ISRHandler) *Ticker {
	return &Ticker{TicksPerSecond: ticksPerSecond, Handler: handler}
}

// Ticks returns the tick counter. It wraps around after 2^32 ticks.
func (t *Ticker) Ticks() uint32 {
	return atomic.LoadUint32(&t.count)
}

// Tick advances the counter by one and calls Handler.
func (t *Ticker) Tick() {
	atomic.AddUint32(&t.count, 1)
	if h := t.Handler; h != nil {
		h.DoUpdateISR()
	}
}

// Period returns the duration of one tick.
func (t *Ticker) Period() time.Duration {
	rate := t.TicksPerSecond
	if rate == 0 {
		rate = DefaultTicksPerSecond
	}
	return time.Second / time.Duration(rate)
}

// Run implements Runnable. Ticks the host timer could not deliver in
// time are replayed back to back, up to MaxCatchUpTicks at once, so the
// counter keeps following wall time.
func (t *Ticker) Run(ctx context.Context) error {
	period := t.Period()
	timer := time.NewTicker(period)
	defer timer.Stop()
	start, delivered := time.Now(), int64(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-timer.C:
			due := int64(now.Sub(start) / period)
			if due-delivered > MaxCatchUpTicks {
				delivered = due - MaxCatchUpTicks
			}
			for ; delivered < due; delivered++ {
				t.Tick()
			}
		}
	}
}
