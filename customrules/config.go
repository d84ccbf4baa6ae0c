package customrules

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/speakeasy-api/lintperf/system"
)

// Config configures custom rule loading.
type Config struct {
	// Timeout is the maximum execution time per rule invocation (default: 30s)
	Timeout time.Duration

	// Logger receives console output from rules
	Logger Logger

	// FS reads rule files (default: the host file system)
	FS system.VirtualFS
}

// DefaultTimeout is the default execution timeout for custom rules.
const DefaultTimeout = 30 * time.Second

// GetTimeout returns the configured timeout or the default.
func (c *Config) GetTimeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// GetLogger returns the configured logger or the default.
func (c *Config) GetLogger() Logger {
	if c == nil || c.Logger == nil {
		return NewSlogLogger(slog.Default())
	}
	return c.Logger
}

func (c *Config) getFS() system.VirtualFS {
	if c == nil || c.FS == nil {
		return &system.FileSystem{}
	}
	return c.FS
}

// Logger is the interface for custom rule console output.
type Logger interface {
	Log(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

// SlogLogger forwards console output to a slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger returns a Logger writing console calls as slog records tagged source=custom-rule.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger.With(slog.String("source", "custom-rule"))}
}

func (l *SlogLogger) Log(args ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, joinArgs(args))
}

func (l *SlogLogger) Warn(args ...any) {
	l.logger.Log(context.Background(), slog.LevelWarn, joinArgs(args))
}

func (l *SlogLogger) Error(args ...any) {
	l.logger.Log(context.Background(), slog.LevelError, joinArgs(args))
}

// joinArgs formats console arguments the way console.log does, separated by spaces.
func joinArgs(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
