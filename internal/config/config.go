// Package config parses coreterm's command-line flags, grounded on
// rcornwell-S370's main.go: pborman/getopt/v2 long/short flag pairs
// populated straight from os.Args, no config file (this kernel has
// nothing resembling S370's per-device config syntax to parse).
package config

import (
	"time"

	getopt "github.com/pborman/getopt/v2"
)

// Config_t holds every flag coreterm's boot entrypoint accepts.
type Config_t struct {
	ImagePath    string        // filesystem image to boot from
	LogPath      string        // log file; stderr only if empty
	Debug        bool          // echo every log line to stderr, not just warnings
	TickInterval time.Duration // PIT tick period, overriding sched.DefaultTickInterval
	RtcFreq      int32         // initial simulated RTC frequency, in Hz
	Help         bool
}

// Parse reads args (normally os.Args, argv[0] included, matching
// getopt's C convention) into a Config_t. Unlike the package-level
// getopt.Parse's default of operating on os.Args implicitly, this
// takes args explicitly so tests can drive it without touching the
// real command line.
func Parse(args []string) Config_t {
	set := getopt.New()
	image := set.StringLong("image", 'i', "fsimg", "Filesystem image to boot")
	logPath := set.StringLong("log", 'l', "", "Log file (default: stderr only)")
	debug := set.BoolLong("debug", 'd', "Echo every log line to stderr")
	tickMs := set.IntLong("tick-ms", 't', 20, "Scheduler tick interval, milliseconds")
	rtcFreq := set.IntLong("rtc-freq", 'r', 2, "Initial RTC frequency, Hz")
	help := set.BoolLong("help", 'h', "Show usage")

	set.Parse(args)

	return Config_t{
		ImagePath:    *image,
		LogPath:      *logPath,
		Debug:        *debug,
		TickInterval: time.Duration(*tickMs) * time.Millisecond,
		RtcFreq:      int32(*rtcFreq),
		Help:         *help,
	}
}

// Usage prints getopt's generated usage text.
func Usage() {
	getopt.Usage()
}
