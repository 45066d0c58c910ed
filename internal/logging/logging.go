// Package logging builds the process logger: a console handler, optionally
// fanned out to a Seq server.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// Options select the handlers of SetupLogger.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	SeqURL string    // empty disables Seq
	Output io.Writer // defaults to stderr
}

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// ParseLevel maps a config string to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// SetupLogger builds the logger and returns a cleanup function that flushes
// any remote handler.
func SetupLogger(opts Options) (*slog.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	var console slog.Handler
	switch opts.Format {
	case "json":
		console = slog.NewJSONHandler(opts.Output, hopts)
	case "", "text":
		console = slog.NewTextHandler(opts.Output, hopts)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q (use text or json)", opts.Format)
	}

	if opts.SeqURL == "" {
		return slog.New(console), func() {}, nil
	}

	_, seqHandler := slogseq.NewLogger(
		opts.SeqURL,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(hopts),
	)
	if seqHandler == nil {
		return slog.New(console), func() {}, nil
	}

	multi := &multiHandler{handlers: []slog.Handler{console, seqHandler}}
	closeFn := func() {
		seqHandler.Close()
	}
	return slog.New(multi), closeFn, nil
}
