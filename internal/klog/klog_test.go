package klog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesOneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, false)

	logger.Info("process launched", "pid", 2, "tid", 0)

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "\n"))
	require.Contains(t, out, "process launched")
	require.Contains(t, out, "pid")
}

func TestNewRespectsLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, false)

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	require.NotContains(t, out, "should be dropped")
	require.Contains(t, out, "should appear")
}
