// Package sse fans server events out to connected browser streams.
package sse

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  interface{}
}

const (
	clientBuffer      = 16
	heartbeatInterval = 25 * time.Second
)

// Manager keeps the set of open streams.
type Manager struct {
	mu      sync.RWMutex
	clients map[chan Message]struct{}
}

// NewManager creates an empty Manager
func NewManager() *Manager {
	return &Manager{clients: make(map[chan Message]struct{})}
}

// Subscribe registers a new client channel. The returned func removes it.
func (m *Manager) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, clientBuffer)
	m.mu.Lock()
	m.clients[ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.clients, ch)
			m.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast sends an event to every client. Slow clients whose buffer is
// full miss the event.
func (m *Manager) Broadcast(event string, data interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg := Message{Event: event, Data: data}
	for ch := range m.clients {
		select {
		case ch <- msg:
		default:
			log.Printf("[SSE] Dropping %s event for a slow client", event)
		}
	}
}

// ClientCount returns the number of open streams.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// ServeHTTP streams events to the client until it disconnects.
func (m *Manager) ServeHTTP(c *gin.Context) {
	ch, unsubscribe := m.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.SSEvent("connected", gin.H{"status": "ok"})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(msg.Event, msg.Data)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
