// Package api provides HTTP REST API handlers for the Hex Diamond game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List sessions (sort, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Turn Flow:
//   - POST /api/sessions/{id}/select-piece - Select the piece to move
//   - POST /api/sessions/{id}/select-card - Pre-select (or clear) a card
//   - POST /api/sessions/{id}/land - Move pending cards into the hand
//   - POST /api/sessions/{id}/end-turn - Pass to the next player
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/reachable - Reachable hexes of the selected piece
//   - GET /api/sessions/{id}/pieces/{piece}/reachable - Reachable hexes of a piece
//   - GET /api/sessions/{id}/hexes/{q}/{r} - Describe one hex
//   - POST /api/sessions/{id}/move - Move a piece to {q, r}
//   - POST /api/sessions/{id}/reset - Reset the board
//   - GET /api/sessions/{id}/history - Move history with pagination
//
// Configuration:
//   - GET /api/configs - List available map configurations
//   - POST /api/configs - Save a new map configuration
//   - GET /api/configs/{name} - Get one configuration
//
// WebSocket:
//   - GET /ws?session={id} - Live state updates for a session
//
// Missing sessions and pieces are 404 and selection conflicts are 409.
// A rejected move is still a 200 whose body reports success=false.
package api
