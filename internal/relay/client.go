package relay

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket subscription to a chat room
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID string
	send   chan []byte
}

// NewClient wraps an upgraded connection subscribed to roomID
func NewClient(hub *Hub, conn *websocket.Conn, roomID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		roomID: roomID,
		send:   make(chan []byte, 64),
	}
}

// Register subscribes the client to its room
func (c *Client) Register() {
	c.hub.register <- c
}

// WritePump forwards room messages and keepalive pings to the connection.
// Runs in its own goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

// ReadPump drains the connection until it closes, then unsubscribes.
// Clients send messages over the REST endpoint, not the socket, so
// inbound frames are discarded; the read loop exists to detect
// disconnects and answer pings.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Chat relay: read error in room %s: %v", c.roomID, err)
			}
			return
		}
	}
}
