package notify

import (
	"sync"
	"time"

	"backoffice-client/internal/util"

	"go.uber.org/zap"
)

// Level classifies a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notification is a single fire-and-forget user-facing message
type Notification struct {
	Level   Level
	Message string
	Time    time.Time
}

// Handler consumes a notification. Handlers must not block.
type Handler func(Notification)

// Notifier fans notifications out to registered handlers. Publishing never
// fails and carries no flow control.
type Notifier struct {
	mu       sync.RWMutex
	handlers map[Level][]Handler
	all      []Handler
	logger   *zap.Logger
}

// New creates a notifier
func New() *Notifier {
	return &Notifier{
		handlers: make(map[Level][]Handler),
		logger:   util.GetLogger(),
	}
}

// On registers a handler for one level
func (n *Notifier) On(level Level, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[level] = append(n.handlers[level], h)
}

// OnAny registers a handler for every level
func (n *Notifier) OnAny(h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, h)
}

// Success publishes a success notification
func (n *Notifier) Success(message string) { n.publish(LevelSuccess, message) }

// Error publishes an error notification
func (n *Notifier) Error(message string) { n.publish(LevelError, message) }

// Info publishes an info notification
func (n *Notifier) Info(message string) { n.publish(LevelInfo, message) }

// Warning publishes a warning notification
func (n *Notifier) Warning(message string) { n.publish(LevelWarning, message) }

func (n *Notifier) publish(level Level, message string) {
	note := Notification{Level: level, Message: message, Time: time.Now()}

	n.logger.Info("Notification",
		zap.String("level", string(level)),
		zap.String("message", message))

	n.mu.RLock()
	handlers := append([]Handler(nil), n.handlers[level]...)
	handlers = append(handlers, n.all...)
	n.mu.RUnlock()

	for _, h := range handlers {
		h(note)
	}
}
