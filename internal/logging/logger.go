package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/livesite-config/internal/config"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger appends timestamped lines to .livesite/logs/livesite.log so operators
// can see which values were rejected after the command has exited. Every line
// carries the run ID so interleaved runs can be told apart.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	path  string
	runID string
	echo  io.Writer
	clock func() time.Time
}

// Option customizes logger construction.
type Option func(*Logger)

// WithEcho mirrors every line to w, typically os.Stderr.
func WithEcho(w io.Writer) Option {
	return func(l *Logger) {
		l.echo = w
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string, opts ...Option) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.LivesiteDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "livesite.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := &Logger{
		file:  f,
		path:  path,
		runID: uuid.NewString()[:8],
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Path returns the file backing this logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID returns the short identifier stamped on this run's lines.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Printf writes a single informational line.
func (l *Logger) Printf(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Info appends an informational entry.
func (l *Logger) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logger) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logger) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Append writes a single entry to the log file and the echo writer.
func (l *Logger) Append(level Level, message string) {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	message = strings.TrimRight(message, "\n")
	line := fmt.Sprintf("%s %-5s [%s] %s\n",
		l.clock().UTC().Format(time.RFC3339),
		string(level),
		l.runID,
		message,
	)
	_, _ = l.file.WriteString(line)
	if l.echo != nil {
		fmt.Fprintf(l.echo, "%-5s %s\n", string(level), message)
	}
}

// Tail returns up to maxLines of the most recent entries and the total line count.
func (l *Logger) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}
