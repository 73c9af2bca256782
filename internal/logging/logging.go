// Package logging builds the leveled loggers used by cmk commands.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the leveled logging contract passed to converters and commands.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Valid values for Config.Level and Config.Format.
var (
	ValidLevels  = []string{"debug", "info", "warn", "error"}
	ValidFormats = []string{"console", "json", "pretty"}
)

// Config selects the level, output format and sink.
type Config struct {
	Level  string
	Format string
	// Writer receives log records. It defaults to os.Stderr so logs never
	// interleave with command output on stdout.
	Writer io.Writer
}

// Provider hands out named loggers sharing one handler.
type Provider struct {
	handler slog.Handler
}

// NewProvider constructs a provider. Empty fields fall back to error-level
// console output on stderr. The pretty format uses go-logger's color console
// handler; debug level adds the caller's source location to every record.
func NewProvider(cfg Config) (*Provider, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:       slogLevel(level),
		AddSource:   level == glog.Debug,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", glog.LoggerTypeConsole:
		handler = slog.NewTextHandler(w, opts)
	case glog.LoggerTypeJSON:
		handler = slog.NewJSONHandler(w, opts)
	case glog.LoggerTypePretty:
		handler = glog.NewColorConsoleHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q (valid: %s)", cfg.Format, strings.Join(ValidFormats, ", "))
	}

	return &Provider{handler: handler}, nil
}

// ParseLevel maps a level name to its go-logger constant. The empty string
// selects error.
func ParseLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "error":
		return glog.Error, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	}
	return "", fmt.Errorf("invalid log level %q (valid: %s)", level, strings.Join(ValidLevels, ", "))
}

func slogLevel(level string) slog.Level {
	switch level {
	case glog.Debug:
		return slog.LevelDebug
	case glog.Info:
		return slog.LevelInfo
	case glog.Warn:
		return slog.LevelWarn
	}
	return slog.LevelError
}

// replaceAttr matches go-logger's record shape: a "ts" key and lowercase levels.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToLower(level.String()))
		}
	}
	return a
}

// GetLogger returns the logger for a component name.
func (p *Provider) GetLogger(name string) Logger {
	if p == nil || p.handler == nil {
		return NoOp()
	}
	handler := p.handler
	if name = strings.TrimSpace(name); name != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("logger", name)})
	}
	return &adapter{handler: handler}
}

type adapter struct {
	handler slog.Handler
}

func (l *adapter) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *adapter) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *adapter) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *adapter) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

// log records the caller of Debug/Info/Warn/Error as the source, skipping
// runtime.Callers, log and the level method.
func (l *adapter) log(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.handler.Handle(ctx, r)
}

type noop struct{}

// NoOp returns a logger that discards everything.
func NoOp() Logger { return noop{} }

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
