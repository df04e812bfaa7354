// Package rtc models the real-time clock device (rtc.c): a single
// hardware tick fans out to every terminal, and each terminal's
// rtc_read call blocks until its own copy of the flag is set, then
// clears it. There is no periodic-interrupt register to program here:
// SetFreq validates and records the rate, and internal/kernel's tick
// loop reads it back through Freq to pace Tick.
package rtc

import (
	"context"
	"sync"

	"github.com/ece391/coreterm/internal/defs"
)

// validFrequencies mirrors rtc.c's F2..F1024 switch: anything else is
// rejected.
var validFrequencies = map[int32]bool{
	2: true, 4: true, 8: true, 16: true, 32: true,
	64: true, 128: true, 256: true, 512: true, 1024: true,
}

// Device_t is the fan-out clock: Tick sets every terminal's flag;
// Wait blocks the calling terminal until its own flag is set, then
// clears it (rtc_read's busy-wait translated into a condition
// variable instead of spinning).
type Device_t struct {
	mu    sync.Mutex
	cond  *sync.Cond
	flags [defs.NumTerminals]bool
	freq  int32
}

// New builds a Device_t at the default 2 Hz rate (rtc_init).
func New() *Device_t {
	d := &Device_t{freq: 2}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Tick is called once per simulated hardware interrupt; it sets every
// terminal's flag and wakes anyone waiting (rtc_handler's fan-out
// loop).
func (d *Device_t) Tick() {
	d.mu.Lock()
	for i := range d.flags {
		d.flags[i] = true
	}
	d.mu.Unlock()
	d.cond.Broadcast()
}

// Wait blocks until terminal tid's flag is set, then clears it and
// returns. It returns EIO if ctx is cancelled first, so a terminal
// being torn down does not leak a waiter.
func (d *Device_t) Wait(ctx context.Context, tid defs.Tid_t) defs.Err_t {
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			d.cond.Broadcast()
		case <-stop:
		}
	}()

	go func() {
		d.mu.Lock()
		for !d.flags[tid] && ctx.Err() == nil {
			d.cond.Wait()
		}
		if d.flags[tid] {
			d.flags[tid] = false
		}
		d.mu.Unlock()
		close(done)
	}()

	<-done
	if ctx.Err() != nil {
		return defs.EIO
	}
	return 0
}

// SetFreq validates and records a new rate (rtc_write).
func (d *Device_t) SetFreq(freq int32) defs.Err_t {
	if !validFrequencies[freq] {
		return defs.EINVAL
	}
	d.mu.Lock()
	d.freq = freq
	d.mu.Unlock()
	return 0
}

// Freq reports the current rate; internal/kernel's tick loop uses it
// to pace Tick.
func (d *Device_t) Freq() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.freq
}
