package sse

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Event is a named payload pushed to every connected client
type Event struct {
	Name string
	Data interface{}
}

// Manager fans events out to connected SSE clients.
// Run must be running for Subscribe and Broadcast to make progress.
type Manager struct {
	clients    map[chan Event]struct{}
	register   chan chan Event
	unregister chan chan Event
	broadcast  chan Event
	done       chan struct{}
	bufferSize int
}

// NewManager creates a manager whose clients buffer up to 16 events
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[chan Event]struct{}),
		register:   make(chan chan Event),
		unregister: make(chan chan Event),
		broadcast:  make(chan Event, 64),
		done:       make(chan struct{}),
		bufferSize: 16,
	}
}

// Run processes subscriptions and broadcasts until Close is called
func (m *Manager) Run() {
	for {
		select {
		case ch := <-m.register:
			m.clients[ch] = struct{}{}
		case ch := <-m.unregister:
			if _, ok := m.clients[ch]; ok {
				delete(m.clients, ch)
				close(ch)
			}
		case ev := <-m.broadcast:
			for ch := range m.clients {
				select {
				case ch <- ev:
				default:
					// slow client, drop the event
				}
			}
		case <-m.done:
			for ch := range m.clients {
				delete(m.clients, ch)
				close(ch)
			}
			return
		}
	}
}

// Close stops Run and disconnects every client
func (m *Manager) Close() {
	close(m.done)
}

// Subscribe registers a new client channel
func (m *Manager) Subscribe() chan Event {
	ch := make(chan Event, m.bufferSize)
	select {
	case m.register <- ch:
	case <-m.done:
		close(ch)
	}
	return ch
}

// Unsubscribe removes ch and closes it
func (m *Manager) Unsubscribe(ch chan Event) {
	select {
	case m.unregister <- ch:
	case <-m.done:
	}
}

// Broadcast queues an event for every client; it is dropped after Close
func (m *Manager) Broadcast(name string, data interface{}) {
	select {
	case m.broadcast <- Event{Name: name, Data: data}:
	case <-m.done:
	}
}

// ServeHTTP streams events to the requesting client until it disconnects
func (m *Manager) ServeHTTP(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Streams outlive the server's WriteTimeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	ch := m.Subscribe()
	defer m.Unsubscribe(ch)

	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
