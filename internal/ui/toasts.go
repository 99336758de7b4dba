package ui

import (
	"sync"
	"time"
)

// DefaultToastTTL matches how long a toast stays on screen.
const DefaultToastTTL = 3 * time.Second

// Toast is one queued transient notification.
type Toast struct {
	ID        uint64
	Message   string
	Level     Level
	ExpiresAt time.Time
}

// Toasts keeps the currently visible transient notifications for the UI server.
type Toasts struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	nextID uint64
	items  []Toast
}

// NewToasts returns a queue whose entries expire after ttl.
func NewToasts(ttl time.Duration) *Toasts {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Toasts{ttl: ttl, now: time.Now}
}

// Notify implements Notifier.
func (t *Toasts) Notify(message string, level Level) {
	if message == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.items = append(t.items, Toast{
		ID:        t.nextID,
		Message:   message,
		Level:     level,
		ExpiresAt: t.now().Add(t.ttl),
	})
}

// Active returns unexpired toasts, oldest first, and drops expired ones.
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	kept := t.items[:0]
	for _, toast := range t.items {
		if now.Before(toast.ExpiresAt) {
			kept = append(kept, toast)
		}
	}
	t.items = kept
	return append([]Toast(nil), kept...)
}

// Dismiss removes a toast before it expires.
func (t *Toasts) Dismiss(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, toast := range t.items {
		if toast.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// WithNowFunc allows tests to override the time source.
func (t *Toasts) WithNowFunc(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Fanout delivers every notification to each wrapped notifier.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(message string, level Level) {
	for _, n := range f {
		if n != nil {
			n.Notify(message, level)
		}
	}
}
