package sched

import (
	"context"
	"time"
)

// DefaultTickInterval corresponds to pit.c's RELOAD_VAL against the
// PIT's 1.193182 MHz input clock, roughly 50 Hz.
const DefaultTickInterval = 20 * time.Millisecond

// Pit_t stands in for the programmable interval timer: pit_init()
// configures channel 0's reload value, and every interrupt runs
// pit_handler(), which sends EOI then calls scheduler(). There is no
// PIC to acknowledge in a hosted simulation, so Run just calls
// Scheduler_t.Tick() on every tick of a time.Ticker.
type Pit_t struct {
	interval time.Duration
	sched    *Scheduler_t
}

// NewPit builds a Pit_t firing sched.Tick() every interval. A
// non-positive interval falls back to DefaultTickInterval.
func NewPit(interval time.Duration, sched *Scheduler_t) *Pit_t {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Pit_t{interval: interval, sched: sched}
}

// Run blocks, ticking the scheduler until ctx is cancelled
// (pit_handler's interrupt loop, for as long as interrupts stay
// enabled).
func (p *Pit_t) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sched.Tick()
		}
	}
}
