package app

import (
	"sync"

	"quizdom/internal/domain"
)

// EventHub is a Renderer that fans session events out to subscribers, such as a
// websocket writer and a terminal printer attached to the same session.
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[chan domain.Event]struct{}
	buffer      int
}

func NewEventHub(buffer int) *EventHub {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventHub{subscribers: make(map[chan domain.Event]struct{}), buffer: buffer}
}

// Subscribe returns a channel of events. The caller must invoke cancel to avoid leaks.
func (h *EventHub) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, h.buffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Render delivers e to every subscriber. A full subscriber loses its oldest
// pending event so the session is never blocked by a slow reader.
func (h *EventHub) Render(e domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- e:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e:
			default:
			}
		}
	}
}
