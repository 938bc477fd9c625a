package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Command is a viewer request, applied by the driver between steps.
type Command struct {
	Type string  `json:"type"` // "move", "pause", "resume", "reset"
	DX   float64 `json:"dx,omitempty"`
	DY   float64 `json:"dy,omitempty"`
	DZ   float64 `json:"dz,omitempty"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	remote string
	send   chan []byte
}

// HandleWebSocket upgrades the request and attaches the viewer to h.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[stream] upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		remote: c.ClientIP(),
		send:   make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[stream] write error for %s: %v", c.remote, err)
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

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[stream] read error for %s: %v", c.remote, err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Printf("[stream] bad command from %s: %v", c.remote, err)
			continue
		}
		select {
		case c.hub.commands <- cmd:
		default:
			log.Printf("[stream] command queue full, dropping %s", cmd.Type)
		}
	}
}
