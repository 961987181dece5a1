package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"campus-canteen/logging"
	"campus-canteen/order-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	chatTimeout    = 5 * time.Second
)

// ChatAppender persists a chat message and announces it to the order room.
type ChatAppender interface {
	Append(ctx context.Context, orderID, from, text string) (*domain.Message, error)
}

// Client is one WebSocket connection. The hub writes to send; writePump
// drains it onto the socket.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	chat ChatAppender
	send chan []byte

	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, chat ChatAppender) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		chat: chat,
		send: make(chan []byte, hub.sendBuffer),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Start registers the client and launches its pumps. It returns false when
// the hub is no longer running.
func (c *Client) Start() bool {
	if !c.hub.register(c) {
		_ = c.conn.Close()
		return false
	}
	go c.writePump()
	go c.readPump()
	return true
}

type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type identifyPayload struct {
	Role      domain.Role `json:"role"`
	StudentID string      `json:"studentId"`
	VendorID  string      `json:"vendorId"`
	ID        string      `json:"id"`
}

type chatPayload struct {
	OrderID string `json:"orderId"`
	From    string `json:"from"`
	Text    string `json:"text"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Str("client_id", c.id).Msg("unexpected websocket close")
			}
			return
		}
		c.handle(msg)
	}
}

// handle applies one inbound event. Malformed payloads are ignored, matching
// the fire-and-forget nature of the socket events.
func (c *Client) handle(msg inbound) {
	switch msg.Type {
	case MessageTypePing:
		c.reply(MessageTypePong, nil)

	case MessageTypeIdentify:
		var p identifyPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		id := p.ID
		switch p.Role {
		case domain.RoleStudent:
			if p.StudentID != "" {
				id = p.StudentID
			}
		case domain.RoleVendor:
			if p.VendorID != "" {
				id = p.VendorID
			}
		}
		c.hub.JoinIdentity(c, p.Role, id)

	case MessageTypeChatJoin:
		c.hub.JoinOrderRoom(c, chatJoinOrderID(msg.Data))

	case domain.EventChatMessage:
		var p chatPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.OrderID == "" || strings.TrimSpace(p.Text) == "" {
			return
		}
		if c.chat == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		if _, err := c.chat.Append(ctx, p.OrderID, p.From, p.Text); err != nil {
			logging.Warn().Err(err).Str("client_id", c.id).Str("order_id", p.OrderID).Msg("chat message rejected")
			c.reply(MessageTypeError, map[string]string{"reason": domain.ReasonOf(err), "error": err.Error()})
		}
	}
}

// chatJoinOrderID accepts either a bare string or {"orderId": "..."}.
func chatJoinOrderID(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}
	var obj struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.OrderID
	}
	return ""
}

// reply enqueues a message for this client only; it is dropped if the queue
// is full or already closed by the hub.
func (c *Client) reply(eventType string, data any) {
	raw, err := json.Marshal(Message{Type: eventType, Data: data})
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logging.Debug().Err(err).Str("client_id", c.id).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
