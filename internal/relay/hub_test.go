package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
)

func waitForClientCount(t *testing.T, hub *Hub, roomID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.RoomClientCount(roomID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d clients", roomID, want)
}

func TestHubFansOutToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	roomID := "alice@x.com_bob@x.com"
	client := NewClient(hub, nil, roomID)
	client.Register()
	waitForClientCount(t, hub, roomID, 1)

	sent := models.Message{ID: 1, RoomID: roomID, Sender: "alice@x.com", Body: "hello"}
	hub.Publish(roomID, sent)

	select {
	case payload := <-client.send:
		var got models.Message
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("frame is not JSON: %v", err)
		}
		if got.Body != sent.Body || got.Sender != sent.Sender {
			t.Errorf("received %+v, want body %q from %q", got, sent.Body, sent.Sender)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered to subscribed client")
	}
}

func TestHubIsolatesRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscriber := NewClient(hub, nil, "room-a")
	subscriber.Register()
	bystander := NewClient(hub, nil, "room-b")
	bystander.Register()
	waitForClientCount(t, hub, "room-a", 1)
	waitForClientCount(t, hub, "room-b", 1)

	hub.Publish("room-a", models.Message{RoomID: "room-a", Body: "only for a"})

	select {
	case <-subscriber.send:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive the frame")
	}

	select {
	case payload := <-bystander.send:
		t.Fatalf("bystander received a frame from another room: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "room-a")
	client.Register()
	waitForClientCount(t, hub, "room-a", 1)

	hub.unregister <- client
	waitForClientCount(t, hub, "room-a", 0)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel, got a frame")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestPublishOnNilHubIsNoOp(t *testing.T) {
	var hub *Hub
	hub.Publish("room-a", models.Message{Body: "dropped"})
	if hub.RoomClientCount("room-a") != 0 {
		t.Error("nil hub reported clients")
	}
}
