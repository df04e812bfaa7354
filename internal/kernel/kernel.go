// Package kernel wires every module together: paging (C1), the
// read-only filesystem (C2), the process/FD layer (C3/C4), the
// scheduler (C5), the terminal multiplexer (C6), the syscall surface
// and RTC (C7), and the trap trampoline (C8) into one bootable system,
// the role biscuit's kernel.go/main.go plays for its own subsystems.
package kernel

import (
	"context"
	"log/slog"
	"time"

	"github.com/ece391/coreterm/internal/config"
	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fs"
	"github.com/ece391/coreterm/internal/mem"
	"github.com/ece391/coreterm/internal/proc"
	"github.com/ece391/coreterm/internal/rtc"
	"github.com/ece391/coreterm/internal/sched"
	"github.com/ece391/coreterm/internal/term"
	"github.com/ece391/coreterm/internal/vm"
)

// vgaPhysical is the real-mode VGA text buffer's physical address
// (spec.md §3's fixed slot-0 mapping).
const vgaPhysical mem.Pa_t = 0xB8000

// backingBase is terminal 0's off-screen video page, the page right
// after the VGA buffer; terminal tid's backing page lives at
// backingBase + tid*PGSIZE.
const backingBase mem.Pa_t = 0xB9000

// Kernel_t owns every subsystem singleton and the goroutines that
// drive them (PIT ticks, RTC ticks).
type Kernel_t struct {
	Log  *slog.Logger
	Img  *fs.Image_t
	Mux  *term.Multiplexer_t
	As   *vm.Addrspace_t
	Phys *mem.Physmem_t
	Rtc  *rtc.Device_t
	Proc *proc.Table_t
	Sched *sched.Scheduler_t
	Pit  *sched.Pit_t
}

// New builds every subsystem and wires their callbacks, but does not
// yet start anything running (Boot does that).
func New(cfg config.Config_t, imageBytes []byte, log *slog.Logger, programs proc.Registry) (*Kernel_t, defs.Err_t) {
	img, err := fs.Load(imageBytes)
	if err != 0 {
		return nil, err
	}

	mux := term.NewMultiplexer()

	var as vm.Addrspace_t
	as.Init()

	var phys mem.Physmem_t
	phys.Init()

	rtcDev := rtc.New()
	rtcDev.SetFreq(cfg.RtcFreq)

	k := &Kernel_t{Log: log, Img: img, Mux: mux, As: &as, Phys: &phys, Rtc: rtcDev}

	k.Proc = proc.New(img, mux, &as, &phys, programs, rtcDev.Wait, rtcDev.SetFreq)
	k.Sched = sched.New(mux)
	k.Pit = sched.NewPit(cfg.TickInterval, k.Sched)

	mux.MapUser = func(pid defs.Pid_t) {
		if pid == defs.NoPid {
			return
		}
		as.MapUser(pid)
	}
	mux.RemapVideo = func(cur, display defs.Tid_t) {
		target := backingBase + mem.Pa_t(cur)*mem.PGSIZE
		as.MapVideo(cur, display, vgaPhysical, target)
		log.Info("video remapped", "cur", int(cur), "display", int(display))
	}
	mux.LaunchShell = func(tid defs.Tid_t) {
		log.Info("launching shell", "terminal", int(tid))
		go k.Proc.Execute(context.Background(), "shell", defs.NoPid, tid)
	}

	return k, 0
}

// Boot starts terminal 0's first shell synchronously (the way
// kernel_main's final act is its own execute("shell") call, with
// cur_terminal/display_terminal both already 0 by construction — no
// terminal_switch is needed to arrive at that state) and then starts
// the PIT and RTC background ticks. It returns with that shell's
// status as soon as the shell's Execute returns; the PIT and RTC
// goroutines keep running until ctx is cancelled, and processes on
// other terminals are not waited for.
func (k *Kernel_t) Boot(ctx context.Context) int32 {
	k.Log.Info("coreterm booting")

	go k.runRtcTicks(ctx)
	go k.Pit.Run(ctx)

	status, _ := k.Proc.Execute(ctx, "shell", defs.NoPid, 0)
	k.Log.Info("terminal 0 shell exited", "status", status)
	return status
}

// runRtcTicks drives the simulated RTC at its currently configured
// rate, re-reading Freq() every cycle so a live SetFreq call is
// honored on the next tick (rtc.c's hardware fires at a fixed real
// rate and the original divides it down per terminal; this collapses
// that division to "tick at whatever rate is currently set").
func (k *Kernel_t) runRtcTicks(ctx context.Context) {
	for {
		freq := k.Rtc.Freq()
		if freq <= 0 {
			freq = 2
		}
		interval := time.Second / time.Duration(freq)
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			k.Rtc.Tick()
		}
	}
}
