package realtime

import (
	"context"
	"encoding/json"

	"campus-canteen/logging"
	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type relayFrame struct {
	Origin  string          `json:"origin"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// RedisRelay shares envelopes between order-svc instances over a Redis
// pub/sub channel. Frames carry the publishing instance's ID so an instance
// never re-delivers its own envelopes.
type RedisRelay struct {
	client   *redis.Client
	channel  string
	instance string
	hub      *Hub
	outbound chan relayFrame
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub, buffer int) *RedisRelay {
	if buffer <= 0 {
		buffer = 1024
	}
	return &RedisRelay{
		client:   client,
		channel:  channel,
		instance: uuid.NewString(),
		hub:      hub,
		outbound: make(chan relayFrame, buffer),
	}
}

func (r *RedisRelay) InstanceID() string { return r.instance }

// Forward implements Forwarder. It never blocks the publisher.
func (r *RedisRelay) Forward(room domain.Room, payload []byte) {
	select {
	case r.outbound <- relayFrame{Origin: r.instance, Room: room.String(), Payload: payload}:
	default:
		metrics.HubDropped.WithLabelValues("relay_full").Inc()
		logging.Warn().Str("room", room.String()).Msg("realtime relay queue full, dropping envelope")
	}
}

// Serve subscribes to the channel and pumps frames both ways until ctx is
// cancelled.
func (r *RedisRelay) Serve(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed so frames published right
	// after startup are not missed.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	inbound := sub.Channel()

	logging.Info().Str("channel", r.channel).Str("instance", r.instance).Msg("realtime relay subscribed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case frame := <-r.outbound:
			raw, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if err := r.client.Publish(ctx, r.channel, raw).Err(); err != nil {
				logging.Warn().Err(err).Str("room", frame.Room).Msg("realtime relay publish failed")
			}

		case msg, ok := <-inbound:
			if !ok {
				return nil
			}
			r.receive(msg.Payload)
		}
	}
}

func (r *RedisRelay) receive(raw string) {
	var frame relayFrame
	if err := json.Unmarshal([]byte(raw), &frame); err != nil {
		logging.Warn().Err(err).Msg("malformed realtime relay frame")
		return
	}
	if frame.Origin == r.instance {
		return
	}
	room, err := domain.ParseRoom(frame.Room)
	if err != nil {
		logging.Warn().Err(err).Msg("realtime relay frame for unknown room")
		return
	}
	r.hub.DeliverRemote(room, frame.Payload)
}
