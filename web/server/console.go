package server

import (
	"context"
	"log/slog"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// ConsoleHandler is a slog.Handler that forwards records to a browser console
// channel and then to the next handler. Sends never block; messages are
// dropped when the channel is full.
type ConsoleHandler struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	next        slog.Handler
}

// NewWebLogger creates a logger for a specific render that writes to the
// console channel and to next
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, next slog.Handler) *slog.Logger {
	if next == nil {
		next = slog.DiscardHandler
	}
	return slog.New(&ConsoleHandler{
		renderID:    renderID,
		consoleChan: consoleChan,
		next:        next,
	}).With("render", renderID)
}

// Enabled implements slog.Handler
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo || h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *ConsoleHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.consoleChan != nil && record.Level >= slog.LevelInfo {
		message := record.Message
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key != "render" {
				message += " " + attr.String()
			}
			return true
		})

		select {
		case h.consoleChan <- ConsoleMessage{
			Message:   message,
			Timestamp: record.Time,
			Level:     levelName(record.Level),
		}:
		default:
			// Channel full, skip (don't block)
		}
	}

	if h.next.Enabled(ctx, record.Level) {
		return h.next.Handle(ctx, record)
	}
	return nil
}

// WithAttrs implements slog.Handler. Attributes reach the next handler only;
// console messages show the attributes of each record.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConsoleHandler{renderID: h.renderID, consoleChan: h.consoleChan, next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	return &ConsoleHandler{renderID: h.renderID, consoleChan: h.consoleChan, next: h.next.WithGroup(name)}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
