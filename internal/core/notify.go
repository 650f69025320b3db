package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier receives user-visible outcomes of list operations.
// The presentation layer decides how to show them (toasts, flash messages).
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NotificationLevel is the severity of a notification.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Notification is a single user-visible message.
type Notification struct {
	ID      string            `json:"id"`
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

// DefaultNotificationBuffer bounds how many undelivered notifications are kept.
const DefaultNotificationBuffer = 20

// NotificationLog buffers notifications until the presentation layer drains
// them. When full, the oldest entry is dropped.
type NotificationLog struct {
	mu    sync.Mutex
	max   int
	items []Notification
	now   func() time.Time
}

// NewNotificationLog creates a log holding at most max undelivered entries.
func NewNotificationLog(max int) *NotificationLog {
	if max <= 0 {
		max = DefaultNotificationBuffer
	}
	return &NotificationLog{max: max, now: time.Now}
}

// Success records a success notification.
func (l *NotificationLog) Success(message string) { l.add(LevelSuccess, message) }

// Error records an error notification.
func (l *NotificationLog) Error(message string) { l.add(LevelError, message) }

func (l *NotificationLog) add(level NotificationLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) == l.max {
		l.items = l.items[1:]
	}
	l.items = append(l.items, Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      l.now(),
	})
}

// Drain returns pending notifications oldest first and empties the log.
func (l *NotificationLog) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.items
	l.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// Pending returns the number of undelivered notifications.
func (l *NotificationLog) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(message string) {
	n.logger().Info("notify", "level", LevelSuccess, "message", message)
}

func (n LogNotifier) Error(message string) {
	n.logger().Warn("notify", "level", LevelError, "message", message)
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

// MultiNotifier fans out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m MultiNotifier) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}
