package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/bizreview-backend/pkg/logger"
)

const (
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second

	// keepaliveInterval stays below idleTimeout so the peer's pong arrives in time.
	keepaliveInterval = idleTimeout * 9 / 10

	maxFrameBytes = 4 * 1024
)

// Conn is the transport side of a reviewer session.
type Conn struct {
	*websocket.Conn
}

func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{Conn: conn}
}

func (c *Conn) write(messageType int, data []byte) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.WriteMessage(messageType, data)
}

func (c *Conn) extendIdle(string) error {
	return c.SetReadDeadline(time.Now().Add(idleTimeout))
}

// ReadPump hands inbound frames to the hub until the peer goes away, then
// detaches the session.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameBytes)
	_ = c.Conn.extendIdle("")
	c.Conn.SetPongHandler(c.Conn.extendIdle)

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Reviewer connection dropped", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}
		c.Hub.HandleClientMessage(c, frame)
	}
}

// WritePump forwards queued frames one per websocket message. A closed Send
// ends the session with a close frame.
func (c *Client) WritePump() {
	keepalive := time.NewTicker(keepaliveInterval)
	defer func() {
		keepalive.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			if !ok {
				_ = c.Conn.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.write(websocket.TextMessage, frame); err != nil {
				logger.Warn("Failed to push review frame", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
				return
			}

		case <-keepalive.C:
			if err := c.Conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
