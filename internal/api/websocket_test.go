package api

import (
	"encoding/json"
	"testing"
	"time"

	"homehub-core/internal/infrastructure/config"
	"homehub-core/internal/infrastructure/logging"
)

func newTestHub() *Hub {
	return NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, logging.Default())
}

// newHubClient registers a client without real pumps; messages are read
// straight from the send channel.
func newHubClient(h *Hub, channels ...string) *WSClient {
	c := &WSClient{
		hub:           h,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	for _, ch := range channels {
		c.subscriptions[ch] = struct{}{}
	}
	h.Register(c)
	return c
}

func receive(t *testing.T, c *WSClient) WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decoding message: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return WSMessage{}
	}
}

func TestHubBroadcast_OnlySubscribedClients(t *testing.T) {
	h := newTestHub()
	subscribed := newHubClient(h, "device.state_changed")
	other := newHubClient(h, "scene.activated")

	h.Broadcast("device.state_changed", map[string]any{"device_id": "light-1"})

	msg := receive(t, subscribed)
	if msg.Type != WSTypeEvent || msg.EventType != "device.state_changed" {
		t.Errorf("message = %+v", msg)
	}

	select {
	case data := <-other.send:
		t.Errorf("unsubscribed client received %s", data)
	default:
	}
}

func TestHubUnregister_Idempotent(t *testing.T) {
	h := newTestHub()
	c := newHubClient(h, "device.state_changed")

	h.Unregister(c)
	h.Unregister(c) // second call must not close the channel again

	if h.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", h.ClientCount())
	}

	// Broadcast to a gone client must not panic.
	h.Broadcast("device.state_changed", nil)
}

func TestClientSubscribeProtocol(t *testing.T) {
	h := newTestHub()
	c := newHubClient(h)

	c.handleMessage([]byte(`{"type": "subscribe", "id": "1", "payload": {"channels": ["scene.activated"]}}`))

	resp := receive(t, c)
	if resp.Type != WSTypeResponse || resp.ID != "1" {
		t.Errorf("response = %+v", resp)
	}
	if !c.isSubscribed("scene.activated") {
		t.Error("subscription not recorded")
	}

	c.handleMessage([]byte(`{"type": "unsubscribe", "id": "2", "payload": {"channels": ["scene.activated"]}}`))
	receive(t, c)
	if c.isSubscribed("scene.activated") {
		t.Error("subscription not removed")
	}
}

func TestClientPingAndUnknownType(t *testing.T) {
	h := newTestHub()
	c := newHubClient(h)

	c.handleMessage([]byte(`{"type": "ping", "id": "9"}`))
	if msg := receive(t, c); msg.Type != WSTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}

	c.handleMessage([]byte(`{"type": "mystery"}`))
	if msg := receive(t, c); msg.Type != WSTypeError {
		t.Errorf("type = %q, want error", msg.Type)
	}

	c.handleMessage([]byte(`not json`))
	if msg := receive(t, c); msg.Type != WSTypeError {
		t.Errorf("type = %q, want error", msg.Type)
	}
}

func TestStoreEventsReachSubscribers(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.hub = newTestHub()
	srv.subscribeStateUpdates()

	c := newHubClient(srv.hub, "device.state_changed")

	if _, err := srv.store.Toggle("light-1", "local"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	msg := receive(t, c)
	payload, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload = %T", msg.Payload)
	}
	if payload["device_id"] != "light-1" || payload["source"] != "local" {
		t.Errorf("payload = %+v", payload)
	}
}
