package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gatherly/gatherly/internal/model"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var got Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
		return Message{}
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message: %s", data)
	default:
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)

	hub.Register(c1, 0)
	hub.Register(c2, 7)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c, 0)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1, 0)
	hub.Register(c2, 0)

	hub.Broadcast(NewMessage("rsvp", "submitted", 42, map[string]any{"response_id": "abc"}))

	for _, c := range []*Client{c1, c2} {
		got := receive(t, c)
		if got.Type != "rsvp_submitted" {
			t.Errorf("type = %q, want rsvp_submitted", got.Type)
		}
		if got.Entity != "rsvp" || got.Action != "submitted" {
			t.Errorf("entity/action = %q/%q", got.Entity, got.Action)
		}
		if got.EventID != 42 {
			t.Errorf("event id = %d, want 42", got.EventID)
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestBroadcastFiltersByEvent(t *testing.T) {
	hub := NewHub(slog.Default())

	all := mockClient(hub)
	watching5 := mockClient(hub)
	watching7 := mockClient(hub)
	hub.Register(all, 0)
	hub.Register(watching5, 5)
	hub.Register(watching7, 7)

	hub.Broadcast(NewMessage("event", "status_changed", 5, nil))

	if got := receive(t, all); got.EventID != 5 {
		t.Errorf("all-events client got event %d, want 5", got.EventID)
	}
	if got := receive(t, watching5); got.EventID != 5 {
		t.Errorf("event-5 client got event %d, want 5", got.EventID)
	}
	assertNoMessage(t, watching7)

	// A message without an event id goes to everyone.
	hub.Broadcast(NewMessage("system", "ping", 0, nil))
	receive(t, all)
	receive(t, watching5)
	receive(t, watching7)

	hub.Unregister(all)
	hub.Unregister(watching5)
	hub.Unregister(watching7)
}

func TestEventStatusChanged(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub)
	hub.Register(c, 9)

	hub.EventStatusChanged(9, model.StatusSurveyCompleted)

	got := receive(t, c)
	if got.Type != "event_status_changed" {
		t.Errorf("type = %q, want event_status_changed", got.Type)
	}
	if got.Extra["status"] != string(model.StatusSurveyCompleted) {
		t.Errorf("status = %v, want %q", got.Extra["status"], model.StatusSurveyCompleted)
	}

	hub.Unregister(c)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	hub.Broadcast(NewMessage("event", "updated", 1, nil))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub)
	hub.Register(c, 0)

	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewMessage("event", "updated", int64(i+1), nil))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(NewMessage("event", "updated", 999, nil))

	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("prediction", "created", 5, nil)
	if msg.Type != "prediction_created" {
		t.Errorf("type = %q, want prediction_created", msg.Type)
	}
	if msg.Entity != "prediction" || msg.Action != "created" {
		t.Errorf("entity/action = %q/%q", msg.Entity, msg.Action)
	}
	if msg.EventID != 5 {
		t.Errorf("event id = %d, want 5", msg.EventID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c, 0)
			hub.Broadcast(NewMessage("event", "updated", 0, nil))
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
