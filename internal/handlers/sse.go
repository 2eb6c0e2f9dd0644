package handlers

import (
	"fmt"
	"net/http"
	"time"

	"sky-admin-go/internal/app"
)

// MenuEventsGet streams dish.changed events. With categoryId it listens to
// that category only, otherwise to the whole menu.
func (s *Server) MenuEventsGet(w http.ResponseWriter, r *http.Request) {
	topics := []string{app.TopicMenu()}
	if v := r.URL.Query().Get("categoryId"); v != "" {
		id, ok := parseInt64(v)
		if !ok {
			s.fail(w, r, badParam("categoryId"))
			return
		}
		topics = []string{app.TopicCategory(id)}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.App.SSE().Subscribe(topics, 32)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// initial hello
	hello, _ := json.Marshal(map[string]any{"ok": true, "ts": time.Now().Unix()})
	fmt.Fprintf(w, "event: hello\ndata: %s\n\n", hello)
	flusher.Flush()

	keep := time.NewTicker(25 * time.Second)
	defer keep.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keep.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			b, _ := json.Marshal(ev.Data)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, b)
			flusher.Flush()
		}
	}
}
