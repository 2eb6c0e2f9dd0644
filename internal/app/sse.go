package app

import (
	"log/slog"
	"strconv"
	"sync"
	"time"
)

type SSEEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const EventDishChanged = "dish.changed"

type DishChanged struct {
	CategoryID int64 `json:"categoryId"`
	At         int64 `json:"at"`
}

// SSEHub fans menu events out to subscribed streams.
type SSEHub struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[chan SSEEvent]struct{} // topic -> set(ch)
}

func NewSSEHub(logger *slog.Logger) *SSEHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &SSEHub{
		log:  logger,
		subs: map[string]map[chan SSEEvent]struct{}{},
	}
}

func (h *SSEHub) Subscribe(topics []string, buf int) (<-chan SSEEvent, func()) {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan SSEEvent, buf)

	h.mu.Lock()
	for _, t := range topics {
		if h.subs[t] == nil {
			h.subs[t] = map[chan SSEEvent]struct{}{}
		}
		h.subs[t][ch] = struct{}{}
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			for _, t := range topics {
				if set, ok := h.subs[t]; ok {
					delete(set, ch)
					if len(set) == 0 {
						delete(h.subs, t)
					}
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (h *SSEHub) Broadcast(topic string, ev SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[topic] {
		select {
		case ch <- ev:
		default:
			h.log.Debug("sse: dropping event for slow consumer", "topic", topic, "type", ev.Type)
		}
	}
}

// Subscribers reports how many streams listen on topic.
func (h *SSEHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

/* ---- topic helpers ---- */

func TopicMenu() string                     { return "menu:global" }
func TopicCategory(categoryID int64) string { return "category:" + strconv.FormatInt(categoryID, 10) }

// DishCategoryChanged tells menu and category subscribers to refetch.
func (h *SSEHub) DishCategoryChanged(categoryID int64) {
	ev := SSEEvent{Type: EventDishChanged, Data: DishChanged{CategoryID: categoryID, At: time.Now().Unix()}}
	h.Broadcast(TopicCategory(categoryID), ev)
	h.Broadcast(TopicMenu(), ev)
}
