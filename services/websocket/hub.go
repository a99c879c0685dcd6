// Package websocket serves court events to plain WebSocket clients, one
// logical channel per connection.
package websocket

import (
	"Courtside/models"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Message is the frame written to clients.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn    *websocket.Conn
	channel models.Channel
	send    chan []byte
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks connected clients per channel. Each client has its own writer
// goroutine, so a slow reader never blocks Publish; a client whose buffer
// fills up is dropped.
type Hub struct {
	upgrader websocket.Upgrader
	// ClientsM guards clients
	ClientsM sync.Mutex
	clients  map[*client]bool
	log      zerolog.Logger
}

func NewHub(l zerolog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[*client]bool),
		log:     l.With().Str("component", "websocket").Logger(),
	}
}

// Serve upgrades the request and subscribes the connection to channel. The
// initial frame, if any, is queued before any broadcast.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, channel models.Channel, initial *Message) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, channel: channel, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		if data, err := json.Marshal(initial); err == nil {
			c.send <- data
		}
	}

	h.ClientsM.Lock()
	h.clients[c] = true
	h.ClientsM.Unlock()
	h.log.Debug().Str("channel", string(channel)).Msg("Client connected")

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// Publish queues the event for every client on channel.
func (h *Hub) Publish(_ context.Context, channel models.Channel, event string, payload interface{}) error {
	data, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		return err
	}

	h.ClientsM.Lock()
	defer h.ClientsM.Unlock()
	for c := range h.clients {
		if c.channel != channel {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("channel", string(channel)).Msg("Dropping slow client")
			delete(h.clients, c)
			c.close()
		}
	}
	return nil
}

// Count returns the number of clients subscribed to channel.
func (h *Hub) Count(channel models.Channel) int {
	h.ClientsM.Lock()
	defer h.ClientsM.Unlock()
	n := 0
	for c := range h.clients {
		if c.channel == channel {
			n++
		}
	}
	return n
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.ClientsM.Lock()
	defer h.ClientsM.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

func (h *Hub) remove(c *client) {
	h.ClientsM.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		c.close()
	}
	h.ClientsM.Unlock()
}

// readPump only handles control frames; clients do not send commands.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.log.Debug().Err(err).Msg("Write failed, closing client")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
