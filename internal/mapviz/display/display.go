// Package display is the in-process control channel between the DM's
// view and the external display surface: sending a map to the display,
// repositioning the viewport, and the cursor/ping events a DM broadcasts
// to players looking at a shared screen (spec.md §4.4, §9 "simple event
// stream").
package display

import "sync"

// Event is one display control message.
type Event struct {
	Type   string         `json:"type"` // "show_map", "viewport", "ping", "clear"
	MapID  string         `json:"map_id,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Hub fans out display events to every subscribed viewer process (the
// external display window). Modeled as a simple broadcast channel set
// rather than a message broker, since there is exactly one DM session
// driving at most a handful of display surfaces.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new viewer and returns its event channel and an
// unsubscribe function.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Publish broadcasts an event to every current subscriber, dropping it
// for any subscriber whose buffer is full rather than blocking the
// publisher on a slow viewer.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
