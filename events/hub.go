package events

import (
	"sync"
	"time"

	"HealthLife/models"

	"github.com/rs/zerolog/log"
)

const (
	TypeMessage = "message"
	TypeExpired = "expired"
)

type Event struct {
	Type    string          `json:"type"`
	ChatID  string          `json:"chatId"`
	Message *models.Message `json:"message,omitempty"`
	At      time.Time       `json:"at"`
}

// Hub fans chat events out to the stream subscribers of each chat.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[chan Event]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subs: make(map[string]map[chan Event]struct{}), buffer: buffer}
}

func (h *Hub) Subscribe(chatID string) chan Event {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[chatID] == nil {
		h.subs[chatID] = make(map[chan Event]struct{})
	}
	h.subs[chatID][ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(chatID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[chatID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(h.subs, chatID)
	}
}

/*
* Deliver to every subscriber of the chat without waiting
* A subscriber whose buffer is full misses the event
 */
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[e.ChatID] {
		select {
		case ch <- e:
		default:
			log.Warn().Str("chatId", e.ChatID).Str("type", e.Type).Msg("dropping event for slow subscriber")
		}
	}
}

func (h *Hub) Subscribers(chatID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[chatID])
}
