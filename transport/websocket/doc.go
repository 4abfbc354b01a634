// Package websocket provides WebSocket transport for the Hex Diamond game.
//
// The package uses a hub-and-spoke model where a central Hub owns every
// connection. Registration, unregistration, and broadcasts are funneled
// through channels into the Hub's Run loop, so client bookkeeping never
// needs a lock. Each client has a read goroutine that only keeps the
// connection alive and a write goroutine that drains its send queue.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "move", "data": {...}}
//
// Clients pick a session with the ?session= query parameter and receive
// only that session's messages.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//	hub.BroadcastToSession(id, state)
package websocket
