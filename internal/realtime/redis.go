package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const eventsChannel = "realtime:events"

// brokerFrame is the payload published on the shared events channel. Origin
// carries the publishing instance's ID so a subscriber can skip frames it
// already delivered locally.
type brokerFrame struct {
	Origin string          `json:"origin"`
	UserID uint            `json:"user_id"`
	Data   json.RawMessage `json:"data"`
}

// RedisBridge fans emitted events out to other server instances over Redis
// pub/sub. Without it the hub is process-local and a user connected to
// instance A never sees a push triggered on instance B.
type RedisBridge struct {
	client     *redis.Client
	hub        *Hub
	instanceID string
}

// NewRedisBridge creates the bridge and starts its subscriber loop. The loop
// runs until ctx is cancelled.
func NewRedisBridge(ctx context.Context, client *redis.Client, hub *Hub, instanceID string) *RedisBridge {
	b := &RedisBridge{client: client, hub: hub, instanceID: instanceID}
	go b.run(ctx)
	return b
}

// Publish sends the already-marshalled event frame to the shared channel,
// best-effort.
func (b *RedisBridge) Publish(userID uint, data []byte) {
	frame, err := json.Marshal(brokerFrame{Origin: b.instanceID, UserID: userID, Data: data})
	if err != nil {
		log.Printf("realtime: marshal broker frame: %v", err)
		return
	}
	if err := b.client.Publish(context.Background(), eventsChannel, frame).Err(); err != nil {
		log.Printf("realtime: publish to %s: %v", eventsChannel, err)
	}
}

func (b *RedisBridge) run(ctx context.Context) {
	sub := b.client.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame brokerFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				log.Printf("realtime: decode broker frame: %v", err)
				continue
			}
			if frame.Origin == b.instanceID {
				continue // already delivered locally before publishing
			}
			b.hub.Deliver(frame.UserID, frame.Data)
		}
	}
}
