package fdops

import (
	"context"
	"encoding/binary"

	"github.com/ece391/coreterm/internal/defs"
)

// Rtc_t is the open RTC device for one terminal: Read blocks for the
// next tick, Write reprograms the rate (rtc_read/rtc_write in rtc.c).
// It depends only on the two methods it calls, not on
// internal/rtc.Device_t itself, so fdops never imports rtc.
type Rtc_t struct {
	wait    func(ctx context.Context, tid defs.Tid_t) defs.Err_t
	setFreq func(freq int32) defs.Err_t
	tid     defs.Tid_t
}

// NewRtc adapts a device's Wait/SetFreq methods into an Rtc_t file.
func NewRtc(tid defs.Tid_t, wait func(context.Context, defs.Tid_t) defs.Err_t, setFreq func(int32) defs.Err_t) *Rtc_t {
	return &Rtc_t{wait: wait, setFreq: setFreq, tid: tid}
}

// Read blocks until the next RTC tick for this terminal.
func (r *Rtc_t) Read(ctx context.Context, buf []byte) (int, defs.Err_t) {
	if err := r.wait(ctx, r.tid); err != 0 {
		return 0, err
	}
	return 0, 0
}

// Write expects exactly 4 bytes encoding the new frequency
// (rtc_write's `nbytes != 4` check).
func (r *Rtc_t) Write(ctx context.Context, buf []byte) (int, defs.Err_t) {
	if len(buf) != 4 {
		return 0, defs.EINVAL
	}
	freq := int32(binary.LittleEndian.Uint32(buf))
	if err := r.setFreq(freq); err != 0 {
		return 0, err
	}
	return 4, 0
}

// Close is a no-op (rtc_close).
func (r *Rtc_t) Close() defs.Err_t {
	return 0
}
