// ABOUTME: Notification delivery for overdue debt reminders
// ABOUTME: Provides a logging notifier and an in-memory recorder

package reminders

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

type Notification struct {
	DebtID string `json:"debt_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Notifier delivers one notification to the shopkeeper.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

func (l LogNotifier) Notify(_ context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Info(n.Title, "body", n.Body, "debt", n.DebtID)
	return nil
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

// Sent returns a copy of the recorded notifications.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
