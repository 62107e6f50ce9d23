package buslog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sat8bit/brew/bus"
	"github.com/sat8bit/brew/message"
)

// BusHandler is a slog.Handler that mirrors log records onto a bus.Bus
// as KindLog events, so renderers can show them inside the chat view.
// It wraps another slog.Handler to continue writing to the original destination.
type BusHandler struct {
	bus   bus.Bus
	inner slog.Handler
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(b bus.Bus, inner slog.Handler) *BusHandler {
	return &BusHandler{
		bus:   b,
		inner: inner,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *BusHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle broadcasts the log message to the bus and then passes the record
// to the wrapped handler.
func (h *BusHandler) Handle(ctx context.Context, r slog.Record) error {
	_ = h.bus.Broadcast(&message.Event{
		Kind: message.KindLog,
		Text: fmt.Sprintf("[%s] %s", r.Level, r.Message),
		At:   time.Now(),
	})
	return h.inner.Handle(ctx, r)
}

// WithAttrs returns a new BusHandler whose attributes consist of
// the handler's attributes followed by attrs.
func (h *BusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BusHandler{
		bus:   h.bus,
		inner: h.inner.WithAttrs(attrs),
	}
}

// WithGroup returns a new BusHandler with the given group name.
func (h *BusHandler) WithGroup(name string) slog.Handler {
	return &BusHandler{
		bus:   h.bus,
		inner: h.inner.WithGroup(name),
	}
}

var _ slog.Handler = (*BusHandler)(nil)
