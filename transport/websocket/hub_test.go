package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels must be initialized")
	}
}

func newClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 4),
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub(nil)
	client := newClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub(nil)
	client := newClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// A second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub(nil)
	sessionID := "multi-client-session"

	client1 := newClient(hub, sessionID)
	client2 := newClient(hub, sessionID)
	other := newClient(hub, "elsewhere")
	hub.registerClient(client1)
	hub.registerClient(client2)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{SessionID: sessionID, Event: "ping"})
	for i, c := range []*Client{client1, client2} {
		select {
		case <-c.send:
		default:
			t.Errorf("client%d did not receive the broadcast", i+1)
		}
	}
	select {
	case <-other.send:
		t.Error("Client in another session received the broadcast")
	default:
	}

	hub.unregisterClient(client1)
	if len(hub.sessions[sessionID]) != 1 || !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "ping"})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Slow client should have been dropped")
	}
}

func startServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForCount(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func TestWebSocketUpgrade(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?session=ws-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	waitForCount(t, hub, "ws-test", 1)

	conn.Close()
	waitForCount(t, hub, "ws-test", 0)
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?session=msg-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	waitForCount(t, hub, "msg-test", 1)

	gameState := &engine.GameState{
		Pieces:        []engine.Piece{{ID: "p1-1", Player: 1, Pos: hexgrid.Coord{Q: 2, R: -1}}},
		CurrentPlayer: 2,
		Turn:          4,
		Phase:         engine.PhaseAwaitingSelection,
	}
	hub.BroadcastToSession("msg-test", gameState)
	hub.BroadcastEvent("msg-test", "move", map[string]string{"piece_id": "p1-1"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.SessionID != "msg-test" || message.Event != EventStateUpdate {
		t.Errorf("Unexpected envelope: %+v", message)
	}
	if message.GameState == nil || message.GameState.Turn != 4 || message.GameState.CurrentPlayer != 2 {
		t.Fatalf("GameState not correctly received: %+v", message.GameState)
	}
	if message.GameState.Pieces[0].Pos != (hexgrid.Coord{Q: 2, R: -1}) {
		t.Errorf("Piece position not correctly received: %v", message.GameState.Pieces[0].Pos)
	}

	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	var event struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("Failed to unmarshal event: %v", err)
	}
	if event.Event != "move" || event.Data["piece_id"] != "p1-1" {
		t.Errorf("Unexpected event: %+v", event)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "shutdown")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	waitForCount(t, hub, "shutdown", 1)

	cancel()
	<-hub.done

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to close after hub shutdown")
	}
	if n := hub.ClientCount("shutdown"); n != 0 {
		t.Errorf("Expected 0 clients after shutdown, got %d", n)
	}
	// Broadcasts after shutdown must not block
	hub.BroadcastEvent("shutdown", "late", nil)
}
