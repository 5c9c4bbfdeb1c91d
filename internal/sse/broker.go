// Package sse implements a Server-Sent Events broker pushing content
// change notifications to connected pages.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type contentEventReq struct {
	kind     string
	filename string
}

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns
// mutable state (clients + aggregate throttle timestamp). Public methods
// communicate with this loop through channels, so no mutexes are
// required.
type Broker struct {
	aggregateMin time.Duration

	subscribeCh    chan chan []byte
	unsubscribeCh  chan chan []byte
	publishCh      chan Event
	contentEventCh chan contentEventReq
	countReqCh     chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker. aggregateThrottle bounds how often the
// coarse site.updated event fires regardless of change volume.
func NewBroker(aggregateThrottle time.Duration) *Broker {
	if aggregateThrottle <= 0 {
		aggregateThrottle = 2 * time.Second
	}

	b := &Broker{
		aggregateMin:   aggregateThrottle,
		subscribeCh:    make(chan chan []byte),
		unsubscribeCh:  make(chan chan []byte),
		publishCh:      make(chan Event, 256),
		contentEventCh: make(chan contentEventReq, 256),
		countReqCh:     make(chan chan int),
		stopCh:         make(chan struct{}),
		stopped:        make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastAggregate time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		raw := fmt.Appendf(nil, "event: %s\ndata: %s\n\n", event.Type, payload)

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.contentEventCh:
			data := map[string]string{"filename": req.filename}
			switch req.kind {
			case "metadata":
				broadcast(Event{Type: "content.updated", Data: data})
			case "updated":
				broadcast(Event{Type: "article.updated", Data: data})
			case "deleted":
				broadcast(Event{Type: "article.deleted", Data: data})
			case "puzzle":
				broadcast(Event{Type: "puzzle.updated", Data: data})
			case "news":
				broadcast(Event{Type: "news.updated", Data: data})
			}

			now := time.Now()
			if now.Sub(lastAggregate) >= b.aggregateMin {
				lastAggregate = now
				broadcast(Event{Type: "site.updated", Data: map[string]string{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishContentEvent publishes a content change plus a throttled
// site.updated aggregate. kind is one of metadata, updated, deleted,
// puzzle, news.
func (b *Broker) PublishContentEvent(kind, filename string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.contentEventCh <- contentEventReq{kind: kind, filename: filename}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
