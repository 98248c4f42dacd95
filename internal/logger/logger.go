// Package logger holds the process-wide structured logger of poolctl.
// Library packages never log; only the command layer does.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger. It discards everything until Init enables it.
var L = discard()

var file *os.File

const (
	logPrefix     = "poolctl-"
	logSuffix     = ".log"
	dateLayout    = "2006-01-02"
	retentionDays = 14
)

// Options configures the logger.
type Options struct {
	Enabled bool       // write JSON records to a dated file in LogDir
	LogDir  string     // default: ~/.poolctl/logs
	Level   slog.Level // minimum level, LevelInfo when zero
	Console io.Writer  // when set, also write text records here (e.g. stderr for --verbose)
}

// Init configures logging. Call it once from the root command before any
// log calls. With neither Enabled nor Console set, output is discarded.
func Init(opts Options) error {
	Close()

	var handlers []slog.Handler
	hopts := &slog.HandlerOptions{Level: opts.Level}

	if opts.Enabled {
		f, err := openLogFile(opts.LogDir)
		if err != nil {
			return err
		}
		file = f
		handlers = append(handlers, slog.NewJSONHandler(f, hopts))
	}
	if opts.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Console, hopts))
	}

	switch len(handlers) {
	case 0:
		L = discard()
	case 1:
		L = slog.New(handlers[0])
	default:
		L = slog.New(fanout(handlers))
	}
	return nil
}

// Close releases the log file, if any, and resets L to discard.
func Close() {
	if file != nil {
		file.Close()
		file = nil
	}
	L = discard()
}

func openLogFile(dir string) (*os.File, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".poolctl", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	// Best effort.
	cleanOldLogs(dir, time.Now())

	name := filepath.Join(dir, logPrefix+time.Now().Format(dateLayout)+logSuffix)
	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// cleanOldLogs removes poolctl-YYYY-MM-DD.log files older than retentionDays.
func cleanOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		day, err := time.Parse(dateLayout, strings.TrimSuffix(strings.TrimPrefix(name, logPrefix), logSuffix))
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			os.Remove(filepath.Join(dir, name))
		}
	}
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
