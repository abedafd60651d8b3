package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	logger, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	for i := 0; i < 5; i++ {
		logger.Info("entry-%d", i)
	}
	lines, total := logger.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestLinesCarryLevelRunIDAndTimestamp(t *testing.T) {
	fixed := time.Date(2025, 12, 5, 5, 30, 0, 0, time.UTC)
	var echo bytes.Buffer
	logger, err := New(t.TempDir(), WithClock(func() time.Time { return fixed }), WithEcho(&echo))
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	logger.Warn("start_time %q rejected\n", "2025-12-05T13:30:00")
	data, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	want := "2025-12-05T05:30:00Z WARN  [" + logger.RunID() + `] start_time "2025-12-05T13:30:00" rejected`
	if line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
	if len(logger.RunID()) != 8 {
		t.Fatalf("run id = %q", logger.RunID())
	}
	if !strings.HasPrefix(echo.String(), "WARN  start_time") {
		t.Fatalf("echo = %q", echo.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Printf("ignored")
	if lines, total := logger.Tail(3); lines != nil || total != 0 {
		t.Fatalf("nil logger tail should be empty")
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
