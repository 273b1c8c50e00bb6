package main

// https://stackoverflow.com/questions/77422213/how-to-hide-all-keys-when-using-slog-in-golang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type Handler struct {
	h   slog.Handler
	mu  *sync.Mutex
	out io.Writer
}

func NewHandler(o io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		out: o,
		h: slog.NewTextHandler(o, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		}),
		mu: &sync.Mutex{},
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h: h.h.WithAttrs(attrs), out: h.out, mu: h.mu}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h: h.h.WithGroup(name), out: h.out, mu: h.mu}
}

// Handle writes one line per line of the message, each one with the same
// timestamp and attribute prefix, so that the log stays greppable.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	prefix := []string{r.Time.Format("[2006/01/02 15:04:05]")}
	if r.Level >= slog.LevelWarn {
		prefix = append(prefix, fmt.Sprintf("[%s]", r.Level.String()))
	}
	r.Attrs(func(a slog.Attr) bool {
		prefix = append(prefix, fmt.Sprintf("[%s]", a.Value.String()))
		return true
	})
	head := strings.Join(prefix, " ")

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(r.Message, "\n"), "\n") {
		b.WriteString(head)
		b.WriteByte(' ')
		b.WriteString(line)
		b.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.out, b.String())
	return err
}
