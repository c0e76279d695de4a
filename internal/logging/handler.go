package logging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const timeFormat = "2006-01-02 15:04:05,000"

// Handler is a slog.Handler producing one line per record:
//
//	2024-01-02 15:04:05,000 - INFO - als.config - message key=value
//
// Records from a source listed in the handler's floors are filtered against
// WARNING instead of the global threshold.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	floors map[string]slog.Level
	source string
	group  string
	attrs  string
}

// NewHandler returns a handler writing to w at the given threshold, with
// the listed sources forced to WARNING.
func NewHandler(w io.Writer, level Level, noisy []string) *Handler {
	floors := make(map[string]slog.Level, len(noisy))
	for _, name := range noisy {
		floors[name] = slog.LevelWarn
	}
	return &Handler{
		mu:     &sync.Mutex{},
		w:      w,
		level:  level.Slog(),
		floors: floors,
	}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	if floor, ok := h.floors[h.source]; ok {
		return l >= floor
	}
	return l >= h.level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	b.WriteString(t.Format(timeFormat))
	b.WriteString(" - ")
	b.WriteString(levelName(r.Level))
	b.WriteString(" - ")
	if h.source == "" {
		b.WriteString("root")
	} else {
		b.WriteString(h.source)
	}
	b.WriteString(" - ")
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		if a.Key == SourceKey && h.group == "" {
			h2.source = a.Value.Resolve().String()
			continue
		}
		appendAttr(&b, h.group, a)
	}
	h2.attrs = b.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

func levelName(l slog.Level) string {
	switch {
	case l >= SlogCritical:
		return levelNames[LevelCritical]
	case l >= slog.LevelError:
		return levelNames[LevelError]
	case l >= slog.LevelWarn:
		return levelNames[LevelWarning]
	case l >= slog.LevelInfo:
		return levelNames[LevelInfo]
	default:
		return levelNames[LevelDebug]
	}
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, group, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(timeFormat)
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
