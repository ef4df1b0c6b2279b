package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Event names pushed over the websocket channel.
const (
	EventNewMessage      = "new_message"
	EventNewNotification = "new_notification"
)

// Emitter delivers a named event to all of a user's live connections,
// best-effort. It never blocks on delivery, never retries and never reports
// failure; when the user has no live connections the payload is dropped and
// the polling path recovers the state.
type Emitter interface {
	Emit(userID uint, event string, payload interface{})
}

// Envelope is the wire frame written to websocket clients.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OfflinePusher sends a device push when a user has no live connections.
// Implementations are best-effort; errors are logged and swallowed.
type OfflinePusher interface {
	PushToUser(ctx context.Context, userID uint, event string, payload interface{}) error
}

// Dispatcher is the process-wide Emitter. It writes to the local hub, fans
// out through the optional broker bridge for other instances, and falls back
// to the optional offline pusher when nobody is connected locally.
type Dispatcher struct {
	hub    *Hub
	bridge *RedisBridge
	pusher OfflinePusher
}

// NewDispatcher creates a Dispatcher. bridge and pusher may be nil.
func NewDispatcher(hub *Hub, bridge *RedisBridge, pusher OfflinePusher) *Dispatcher {
	return &Dispatcher{hub: hub, bridge: bridge, pusher: pusher}
}

// Emit implements Emitter. Errors anywhere on the delivery path are logged
// and swallowed: notification delivery is a side effect, never part of the
// triggering write's success.
func (d *Dispatcher) Emit(userID uint, event string, payload interface{}) {
	if d == nil || userID == 0 {
		return
	}
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("realtime: marshal %s event: %v", event, err)
		return
	}

	delivered := d.hub.Deliver(userID, data)

	if d.bridge != nil {
		d.bridge.Publish(userID, data)
	}

	// Fall back to a device push only when the user truly has no local
	// connection; a failed send to a connection with a full buffer is not
	// "offline" and the poll loop recovers it.
	if !delivered && d.pusher != nil && d.hub.ConnectionCount(userID) == 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := d.pusher.PushToUser(ctx, userID, event, payload); err != nil {
				log.Printf("realtime: offline push for user %d: %v", userID, err)
			}
		}()
	}
}
