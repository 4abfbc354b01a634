// Package mcp provides the Model Context Protocol interface for the Hex Diamond game.
//
// Client is a thin proxy: every tool call is translated into a request
// against the REST API, and the JSON answer is rendered as text an agent
// can read (odd-r board rows, hand and pending cards, reachable hexes).
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - game_state: board, pieces, hand and pending cards
//   - land_cards, select_piece, select_card, end_turn: turn flow
//   - reachable: destinations of a piece and the card each one uses
//   - move: move a piece to an axial (q, r) destination
//   - reset_game, move_history: game lifecycle
//   - list_configs, game_instructions, describe_hex: reference
//
// Transport Modes:
//
// main serves the same MCP server over stdio (the stdio-mcp mode) or as a
// JSON-RPC endpoint mounted at /mcp next to the REST API.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
