// Package notify broadcasts scrape progress to connected websocket
// clients. No subscribers is the normal case and every broadcast is
// fire-and-forget.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventWorkScraped      = "work.scraped"
	EventChapterExtracted = "chapter.extracted"
	EventBatchFinished    = "batch.finished"
)

type Event struct {
	Type         string `json:"type"`
	WorkID       string `json:"manga_id,omitempty"`
	ChapterID    string `json:"chapter_id,omitempty"`
	ChapterURL   string `json:"chapter_url,omitempty"`
	SuccessCount int    `json:"success_count,omitempty"`
	FailureCount int    `json:"failure_count,omitempty"`
	At           int64  `json:"at"`
}

func NewEvent(eventType string) Event {
	return Event{Type: eventType, At: time.Now().Unix()}
}

type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends the event to every connected client. Clients that fail
// to write are dropped.
func (h *Hub) Broadcast(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.clients {
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}
