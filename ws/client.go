package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait: tek bir mesajı yazmak için maksimum süre.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3.
	pongWait = 90 * time.Second

	// Panel sadece heartbeat gönderir.
	maxMessageSize = 512

	sendBufferSize = 64
)

// Client, tek bir admin WebSocket bağlantısı.
//
// Her bağlantı için iki goroutine çalışır: ReadPump heartbeat'leri okur,
// WritePump Hub'dan gelen event'leri yazar. gorilla/websocket aynı anda tek
// yazıcıya izin verdiği için yazmalar mu ile korunur.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	actor string
	send  chan []byte
	mu    sync.Mutex
}

// ReadPump, bağlantı kapanana kadar client'tan gelen mesajları okur.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warnw("unexpected close", "actor", c.actor, "error", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.hub.log.Debugw("invalid message", "actor", c.actor, "error", err)
			continue
		}

		switch event.Op {
		case OpHeartbeat:
			if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
				return
			}
			if err := c.writeEvent(Event{Op: OpHeartbeatAck}); err != nil {
				return
			}
		default:
			c.hub.log.Debugw("unknown op", "actor", c.actor, "op", event.Op)
		}
	}
}

// WritePump, send channel'ından gelen event'leri yazar. Channel kapanınca
// (Hub client'ı çıkardı) close frame gönderip biter.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeEvent(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.writeMessage(websocket.TextMessage, data)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
