// Package notification is the transient toast channel. Services enqueue a
// message only after their state transition has applied; consumers observe it
// on the next drain, never during the mutation itself.
package notification

import (
	"sync"
	"time"

	"github.com/fauzankm/storefront/internal/session"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// pending notifications per session are capped; the oldest entry is dropped
// when the cap is reached.
const maxPending = 32

const sweepInterval = 10 * time.Minute

type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Success(sessionID string, message string)
	Error(sessionID string, message string)
}

type queue struct {
	items    []Notification
	lastSeen time.Time
}

// Hub keeps per-session queues in memory. A queue the client never drains is
// reaped once it sits idle past the session lifetime.
type Hub struct {
	mu      sync.Mutex
	pending map[string]*queue
	nowFunc func() time.Time
}

func NewHub() *Hub {
	h := &Hub{
		pending: make(map[string]*queue),
		nowFunc: time.Now,
	}
	go h.sweepLoop()
	return h
}

func (h *Hub) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		h.sweep(h.nowFunc())
	}
}

func (h *Hub) sweep(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, q := range h.pending {
		if now.Sub(q.lastSeen) > session.Lifetime {
			delete(h.pending, sessionID)
		}
	}
}

func (h *Hub) push(sessionID string, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, ok := h.pending[sessionID]
	if !ok {
		q = &queue{}
		h.pending[sessionID] = q
	}
	q.lastSeen = h.nowFunc()
	if len(q.items) >= maxPending {
		q.items = q.items[1:]
	}
	q.items = append(q.items, n)
}

func (h *Hub) Success(sessionID string, message string) {
	h.push(sessionID, Notification{Level: LevelSuccess, Message: message})
}

func (h *Hub) Error(sessionID string, message string) {
	h.push(sessionID, Notification{Level: LevelError, Message: message})
}

// Drain returns the session's pending notifications in FIFO order and clears
// the queue.
func (h *Hub) Drain(sessionID string) []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, ok := h.pending[sessionID]
	if !ok {
		return nil
	}
	delete(h.pending, sessionID)
	return q.items
}
