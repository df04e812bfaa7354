// Package klog wraps log/slog with a single-line handler, the way
// rcornwell-S370's util/logger wraps it: one struct holding an
// io.Writer and a mutex, formatting "time level msg attrs" on one
// line, with an independent debug flag that also echoes everything to
// stderr regardless of level.
package klog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, debug: h.debug}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, debug: h.debug}
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	strs := []string{r.Time.Format("2006/01/02 15:04:05"), r.Level.String() + ":", r.Message}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.String())
		return true
	})
	line := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(line)
	}
	if h.debug || r.Level >= slog.LevelWarn {
		_, _ = os.Stderr.Write(line)
	}
	return err
}

// New builds a *slog.Logger writing one line per record to out (a log
// file, typically), additionally echoing warnings/errors to stderr
// always, and every record to stderr when debug is set.
func New(out io.Writer, level slog.Level, debug bool) *slog.Logger {
	return slog.New(&handler{
		out:   out,
		h:     slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
		mu:    &sync.Mutex{},
		debug: debug,
	})
}
