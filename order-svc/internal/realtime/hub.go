// Package realtime fans order and chat events out to WebSocket clients
// grouped into rooms (student:<id>, vendor:<id>, order:<id>).
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"campus-canteen/logging"
	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/metrics"
)

const (
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
	MessageTypeError = "error"

	// Inbound client events.
	MessageTypeIdentify = "identify"
	MessageTypeChatJoin = "chat:join"
)

// Message is the envelope written to and read from every connection.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Forwarder receives every locally published envelope so other instances can
// deliver it to their own clients.
type Forwarder interface {
	Forward(room domain.Room, payload []byte)
}

type delivery struct {
	room    domain.Room
	event   string
	payload []byte
}

// Hub owns client membership. Delivery happens on the single Serve goroutine,
// so envelopes published to one room reach its members in publish order.
type Hub struct {
	clients map[*Client]map[domain.Room]struct{}
	rooms   map[domain.Room]map[*Client]struct{}
	stopped bool
	mu      sync.RWMutex

	broadcast chan delivery

	forwarder  Forwarder
	sendBuffer int
}

type Options struct {
	// SendBuffer is the per-client outbound queue length.
	SendBuffer int
	// BroadcastBuffer bounds envelopes waiting for the hub loop.
	BroadcastBuffer int
}

func NewHub(opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 256
	}
	if opts.BroadcastBuffer <= 0 {
		opts.BroadcastBuffer = 1024
	}
	return &Hub{
		clients:    make(map[*Client]map[domain.Room]struct{}),
		rooms:      make(map[domain.Room]map[*Client]struct{}),
		broadcast:  make(chan delivery, opts.BroadcastBuffer),
		sendBuffer: opts.SendBuffer,
	}
}

// SetForwarder must be called before Serve.
func (h *Hub) SetForwarder(f Forwarder) {
	h.forwarder = f
}

// Serve delivers queued envelopes until ctx is cancelled, then disconnects
// every client. Shutdown takes priority over pending deliveries.
func (h *Hub) Serve(ctx context.Context) error {
	h.mu.Lock()
	h.stopped = false
	h.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	h.stopped = true
	count := len(h.clients)
	for client := range h.clients {
		h.dropLocked(client)
	}
	h.mu.Unlock()

	metrics.HubClients.Set(0)
	logging.Info().
		Str("component", "realtime-hub").
		Int("clients_closed", count).
		Msg("realtime hub stopped")
}

// register admits the client. It reports false once the hub has stopped.
func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return false
	}
	if _, ok := h.clients[c]; !ok {
		h.clients[c] = make(map[domain.Room]struct{})
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.HubClients.Set(float64(total))
	logging.Debug().Str("client_id", c.id).Int("total_clients", total).Msg("realtime client connected")
	return true
}

// unregister removes the client from all rooms. Safe to call more than once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		h.dropLocked(c)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.HubClients.Set(float64(total))
		logging.Debug().Str("client_id", c.id).Int("total_clients", total).Msg("realtime client disconnected")
	}
}

// dropLocked leaves every room and closes the send queue. h.mu must be held.
func (h *Hub) dropLocked(c *Client) {
	for room := range h.clients[c] {
		members := h.rooms[room]
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.clients, c)
	c.closeSend()
}

// JoinIdentity subscribes the client to its personal room. Unknown roles and
// empty IDs are ignored.
func (h *Hub) JoinIdentity(c *Client, role domain.Role, id string) bool {
	if id == "" {
		return false
	}
	switch role {
	case domain.RoleStudent:
		return h.join(c, domain.StudentRoom(id))
	case domain.RoleVendor:
		return h.join(c, domain.VendorRoom(id))
	}
	return false
}

func (h *Hub) JoinOrderRoom(c *Client, orderID string) bool {
	if orderID == "" {
		return false
	}
	return h.join(c, domain.OrderRoom(orderID))
}

// join is idempotent and only admits registered clients.
func (h *Hub) join(c *Client, room domain.Room) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined, ok := h.clients[c]
	if !ok {
		return false
	}
	joined[room] = struct{}{}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	return true
}

// Publish queues an envelope for the room's current members and, when a
// forwarder is set, for other instances. It never blocks: when the hub is
// saturated the envelope is dropped and logged.
func (h *Hub) Publish(room domain.Room, eventType string, payload any) {
	raw, err := json.Marshal(Message{Type: eventType, Data: payload})
	if err != nil {
		logging.Error().Err(err).Str("event", eventType).Str("room", room.String()).Msg("failed to encode realtime envelope")
		return
	}
	h.enqueue(delivery{room: room, event: eventType, payload: raw})
	if h.forwarder != nil {
		h.forwarder.Forward(room, raw)
	}
}

// DeliverRemote queues an envelope that was published on another instance.
// It is never forwarded again. Frames that are not a typed envelope are dropped.
func (h *Hub) DeliverRemote(room domain.Room, raw []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.Type == "" {
		metrics.HubDropped.WithLabelValues("malformed").Inc()
		logging.Warn().Err(err).Str("room", room.String()).Int("bytes", len(raw)).Msg("dropping malformed remote envelope")
		return
	}
	h.enqueue(delivery{room: room, event: head.Type, payload: raw})
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.broadcast <- d:
	default:
		metrics.HubDropped.WithLabelValues("broadcast_full").Inc()
		logging.Warn().Str("room", d.room.String()).Str("event", d.event).Msg("realtime broadcast queue full, dropping envelope")
	}
}

// deliver hands the envelope to every member of the room. A member whose send
// queue is full is disconnected rather than allowed to stall the room.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var slow []*Client
	for client := range h.rooms[d.room] {
		select {
		case client.send <- d.payload:
			metrics.HubDeliveries.WithLabelValues(d.event).Inc()
		default:
			slow = append(slow, client)
		}
	}

	for _, client := range slow {
		metrics.HubDropped.WithLabelValues("client_full").Inc()
		logging.Warn().Str("client_id", client.id).Str("room", d.room.String()).Msg("realtime client too slow, disconnecting")
		h.dropLocked(client)
	}
	if len(slow) > 0 {
		metrics.HubClients.Set(float64(len(h.clients)))
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room domain.Room) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
