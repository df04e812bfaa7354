// Command coreterm boots the kernel simulation: it loads a filesystem
// image, wires up logging and the scheduler/RTC background ticks, and
// feeds an interactive liner-based console into the displayed terminal, the way
// rcornwell-S370's main.go boots a CPU and hands a
// reader.ConsoleReader its own goroutine.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterh/liner"

	"github.com/ece391/coreterm/internal/config"
	"github.com/ece391/coreterm/internal/kernel"
	"github.com/ece391/coreterm/internal/klog"
)

func main() {
	cfg := config.Parse(os.Args)
	if cfg.Help {
		config.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if cfg.LogPath != "" {
		f, err := os.Create(cfg.LogPath)
		if err != nil {
			slog.Error("could not create log file", "path", cfg.LogPath, "err", err)
			os.Exit(1)
		}
		logFile = f
		defer logFile.Close()
	}
	log := klog.New(logFile, slog.LevelInfo, cfg.Debug)

	imageBytes, err := os.ReadFile(cfg.ImagePath)
	if err != nil {
		log.Error("could not read filesystem image", "path", cfg.ImagePath, "err", err)
		os.Exit(1)
	}

	k, kerr := kernel.New(cfg, imageBytes, log, kernel.BuiltinPrograms())
	if kerr != 0 {
		log.Error("could not load filesystem image", "err", kerr.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cancel()
	}()

	go consoleReader(ctx, k, cancel)

	status := k.Boot(ctx)
	log.Info("coreterm halted", "status", status)
}

// consoleReader feeds the displayed terminal's line buffer from the real
// terminal via liner, the hosted-Go substitute for a PS/2 keyboard
// controller's scancode stream: a real console only ever hands over
// complete lines, not raw keystrokes, so it drives
// Terminal_t.FeedLine rather than PushScancode.
func consoleReader(ctx context.Context, k *kernel.Kernel_t, cancel context.CancelFunc) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		if ctx.Err() != nil {
			return
		}
		input, err := line.Prompt("")
		if err != nil {
			if err == liner.ErrPromptAborted {
				cancel()
				return
			}
			continue
		}
		line.AppendHistory(input)
		k.Mux.Terminal(k.Mux.Display()).FeedLine(input)
	}
}
