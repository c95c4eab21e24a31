// Package preview keeps the composed preview document, pushes reload and
// highlight events to connected browsers over server-sent events and watches
// content files in CLI preview mode.
package preview

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Event types sent to preview clients.
const (
	EventReload    = "reload"
	EventHighlight = "highlight"
	EventClear     = "clear"
)

// Event is one message on the preview stream.
type Event struct {
	Type    string  `json:"type"`
	Hash    string  `json:"hash,omitempty"`
	Field   string  `json:"field,omitempty"`
	Targets []Match `json:"targets,omitempty"`
}

// Hub manages SSE clients of the preview stream. It remembers the last
// document hash and the active highlight so late joiners start in sync.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	clients   map[int]*hubClient
	closed    bool
	lastHash  string
	highlight *Event
	recorder  metrics.Recorder
	heartbeat time.Duration
}

type hubClient struct {
	id   int
	ch   chan Event
	done chan struct{}
}

// NewHub returns an empty hub. A nil recorder disables metrics.
func NewHub(recorder metrics.Recorder) *Hub {
	return &Hub{
		clients:   map[int]*hubClient{},
		recorder:  metrics.OrNoop(recorder),
		heartbeat: 30 * time.Second,
	}
}

// SetHeartbeat changes the keep-alive interval for clients connecting
// afterwards. Non-positive values are ignored.
func (h *Hub) SetHeartbeat(d time.Duration) {
	if d <= 0 {
		return
	}
	h.mu.Lock()
	h.heartbeat = d
	h.mu.Unlock()
}

// ServeHTTP implements the SSE endpoint.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	client := &hubClient{ch: make(chan Event, 8), done: make(chan struct{})}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "preview shutting down", http.StatusServiceUnavailable)
		return
	}
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	var initial []Event
	if h.lastHash != "" {
		initial = append(initial, Event{Type: EventReload, Hash: h.lastHash})
	}
	if h.highlight != nil {
		initial = append(initial, *h.highlight)
	}
	n := len(h.clients)
	heartbeat := h.heartbeat
	h.mu.Unlock()
	h.recorder.SetPreviewClients(n)
	defer h.removeClient(client.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		return
	}
	for _, ev := range initial {
		if err := writeEvent(bw, ev); err != nil {
			return
		}
	}
	if err := bw.Flush(); err != nil {
		return
	}
	flusher.Flush()

	hb := time.NewTicker(heartbeat)
	defer hb.Stop()
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err != nil {
				slog.Debug("preview ping write", logfields.Error(err))
				return
			}
		case ev := <-client.ch:
			if err := writeEvent(bw, ev); err != nil {
				slog.Debug("preview event write", logfields.Error(err))
				return
			}
		}
		if err := bw.Flush(); err != nil {
			return
		}
		flusher.Flush()
	}
}

func writeEvent(bw *bufio.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = bw.WriteString("data: " + string(data) + "\n\n")
	return err
}

func (h *Hub) removeClient(id int) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.recorder.SetPreviewClients(n)
	}
}

// Broadcast sends ev to every client. A reload carrying the hash already
// sent is dropped, as is anything after Shutdown. A highlight replaces the
// remembered batch and a clear forgets it. Clients whose buffers are full are
// disconnected. It reports whether the event was sent.
func (h *Hub) Broadcast(ev Event) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	switch ev.Type {
	case EventReload:
		if ev.Hash == "" || ev.Hash == h.lastHash {
			h.mu.Unlock()
			return false
		}
		h.lastHash = ev.Hash
	case EventHighlight:
		cp := ev
		h.highlight = &cp
	case EventClear:
		h.highlight = nil
	}
	snapshot := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- ev:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	slog.Debug("preview broadcast",
		slog.String("type", ev.Type),
		logfields.Clients(len(snapshot)),
		slog.Int("dropped", dropped))
	return true
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects all clients and stops future broadcasts.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*hubClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
	h.recorder.SetPreviewClients(0)
}
