// Package log builds the converter's loggers: a leveled slog.Logger for
// protocol events and a raw frame logger for wire-level debugging.
package log

import (
	"context"
	"log/slog"
	"os"
)

// LevelTrace sits below Debug and is reserved for per-frame output; at this
// level the raw frame logger is switched on as well.
const LevelTrace slog.Level = -8

var levelNames = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"":      slog.LevelInfo,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to its slog level. Unknown names fall back to
// info rather than failing, so a typo in a config file never mutes errors.
func ParseLevel(s string) slog.Level {
	if l, ok := levelNames[s]; ok {
		return l
	}
	return slog.LevelInfo
}

// splitHandler routes error records to stderr and everything else to stdout,
// so a service manager can collect failures separately while the normal
// protocol chatter stays on stdout. An optional third handler tees every
// record to a log file.
type splitHandler struct {
	out  slog.Handler // below error
	err  slog.Handler // error and above
	file slog.Handler // optional tee
}

func (h splitHandler) pick(level slog.Level) slog.Handler {
	if level >= slog.LevelError {
		return h.err
	}
	return h.out
}

func (h splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.pick(level).Enabled(ctx, level) {
		return true
	}
	return h.file != nil && h.file.Enabled(ctx, level)
}

func (h splitHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.pick(r.Level).Handle(ctx, r)
	if h.file != nil {
		_ = h.file.Handle(ctx, r)
	}
	return err
}

func (h splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
	if h.file != nil {
		next.file = h.file.WithAttrs(attrs)
	}
	return next
}

func (h splitHandler) WithGroup(name string) slog.Handler {
	next := splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
	if h.file != nil {
		next.file = h.file.WithGroup(name)
	}
	return next
}

// Setup builds the converter's logger. The returned close function flushes
// and closes the log file, when one was requested.
func Setup(levelName, logFile string) (*slog.Logger, func(), error) {
	level := ParseLevel(levelName)

	h := splitHandler{
		out: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		err: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
	}

	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		h.file = slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
		closeFn = func() { _ = f.Close() }
	}

	return slog.New(h), closeFn, nil
}
