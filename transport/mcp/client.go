package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Hex Diamond Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Hex Diamond Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Move one of your pieces onto a diamond hex. Each move is paid for with a
terrain card from your hand.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage games
- game_state: board, pieces, hand and pending cards
- land_cards: move freshly drawn (pending) cards into your hand
- select_piece / select_card: choose what to move and which card to use
- reachable: hexes a piece can reach with the cards in hand
- move: move a piece to a reachable hex (requires intent explanation)
- end_turn: pass to the next player
- reset_game, move_history, list_configs, game_instructions
- describe_hex: terrain, occupant and reachability of one hex

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional map config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "ID of the map config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state: board rows, pieces, hand and pending cards",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reachable",
		Description: "List the hexes a piece can reach with the cards currently in hand. Pending cards do not count until landed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"piece_id": map[string]any{
					"type":        "string",
					"description": "Piece ID such as p1-1 (optional, defaults to the selected piece)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReachable)

	// Turn flow
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_piece",
		Description: "Select one of the current player's pieces",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"piece_id": map[string]any{
					"type":        "string",
					"description": "Piece ID such as p1-1",
				},
			},
			Required: []string{"session_id", "piece_id"},
		},
	}, c.handleSelectPiece)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_card",
		Description: "Restrict moves to one card from the hand. Selecting the same card again clears the selection.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"card_id": map[string]any{
					"type":        "string",
					"description": "Card ID from the hand",
				},
			},
			Required: []string{"session_id", "card_id"},
		},
	}, c.handleSelectCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "land_cards",
		Description: "Move pending cards into the hand so they become playable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"card_ids": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Pending card IDs to land (optional, defaults to all)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleLandCards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move a piece to a reachable hex given in axial coordinates",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"piece_id": map[string]any{
					"type":        "string",
					"description": "Piece ID such as p1-1",
				},
				"q": map[string]any{
					"type":        "integer",
					"description": "Axial q of the destination",
				},
				"r": map[string]any{
					"type":        "integer",
					"description": "Axial r of the destination",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "piece_id", "q", "r"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "End the current player's turn",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleEndTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial setup",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available map configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_hex",
		Description: "Get detailed information about one hex: terrain, occupant, whether the selected piece can reach it and with which card.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"q": map[string]any{
					"type":        "integer",
					"description": "Axial q coordinate",
				},
				"r": map[string]any{
					"type":        "integer",
					"description": "Axial r coordinate",
				},
			},
			Required: []string{"session_id", "q", "r"},
		},
	}, c.handleDescribeHex)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument. ok is false when it is missing.
func intArg(args map[string]any, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	if configID == "" {
		configID, _ = args["config_name"].(string)
	}

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil {
			status = fmt.Sprintf(", Turn %d, Player %d", s.GameState.Turn, s.GameState.CurrentPlayer)
			if s.GameState.Winner != 0 {
				status = fmt.Sprintf(", Won by player %d", s.GameState.Winner)
			}
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s%s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleReachable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	pieceID, _ := args["piece_id"].(string)

	path := sessionPath(sessionID, "/reachable")
	if pieceID != "" {
		path = sessionPath(sessionID, "/pieces/"+url.PathEscape(pieceID)+"/reachable")
	}

	var result service.ReachableResult
	if err := c.apiCall(ctx, "GET", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatReachable(&result.ReachableView)), nil
}

func (c *Client) handleSelectPiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	pieceID, _ := args["piece_id"].(string)

	var state engine.GameState
	body := map[string]string{"piece_id": pieceID}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/select-piece"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Selected %s\n\n%s", pieceID, formatGameState(&state))), nil
}

func (c *Client) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	cardID, _ := args["card_id"].(string)

	var state engine.GameState
	body := map[string]string{"card_id": cardID}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/select-card"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleLandCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	var ids []string
	if raw, ok := args["card_ids"].([]any); ok {
		for _, v := range raw {
			if id, ok := v.(string); ok {
				ids = append(ids, id)
			}
		}
	}

	var state engine.GameState
	body := map[string]any{}
	if len(ids) > 0 {
		body["card_ids"] = ids
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/land"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	pieceID, _ := args["piece_id"].(string)

	q, okQ := intArg(args, "q")
	r, okR := intArg(args, "r")
	if !okQ || !okR {
		return mcp.NewToolResultError("q and r are required integers"), nil
	}

	body := map[string]any{"piece_id": pieceID, "q": q, "r": r}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/end-turn"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// Also show the moves since the last reset
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err == nil {
		result += "\n" + formatCurrentSegment(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		kind := "hand-drawn"
		if config.Generated {
			kind = "generated"
		}
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Hexes: %d (%s), Players: %d, Hand: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.Hexes, kind, config.Players, config.HandSize)
	}
	return mcp.NewToolResultText(b.String()), nil
}

const instructions = `Hex Diamond Game - Complete Instructions

GAME OBJECTIVE:
Be the first player to move a piece onto a diamond hex (D).

THE BOARD:
The map is a grid of hexagons addressed by axial coordinates (q, r).
The six neighbors of (q, r) are, in order:
  (q+1, r)  (q+1, r-1)  (q, r-1)  (q-1, r)  (q-1, r+1)  (q, r+1)
Board rows are printed in odd-r offset layout: odd rows are shifted half a
hex to the right. Row index is r; column is q + (r - (r&1))/2.

TERRAIN:
• g - Grass (enterable)
• s - Sand (enterable)
• w - Water (enterable)
• m - Mountain (never enterable)
• D - Diamond (the goal)
• ? - Unknown (never enterable)
• 1, 2 - Pieces of player 1 and player 2

CARDS:
• Every card names a terrain and a range, e.g. grass/2.
• At the start of your turn you draw a fresh hand. New cards are PENDING:
  they cannot be played until you land them with land_cards.
• A card moves a piece up to <range> steps, and every hex on the path
  (including the destination) must be of the card's terrain.
• Some maps let any card finish its path on a diamond (diamond wildcard).
• Each move consumes exactly one card. Occupied hexes block movement.
• select_card restricts the next move to one card; select it again to clear.

TURN FLOW:
1. land_cards - make the drawn cards playable
2. reachable - see where a piece can go and which card each move uses
3. move - move a piece to one of those hexes
4. repeat while you have cards, then end_turn

STRATEGY TIPS:
• Use describe_hex to check terrain and the distance to the nearest diamond.
• Prefer the card whose terrain matches the corridor toward the diamond.
• Long-range cards are worth saving for open stretches of one terrain.
• A piece standing on a chokepoint blocks the opponent.

VICTORY:
Reaching a diamond ends the game immediately. Only reset_game continues
after a victory.

Good luck finding the diamond!`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeHex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	q, okQ := intArg(args, "q")
	r, okR := intArg(args, "r")
	if !okQ || !okR {
		return mcp.NewToolResultError("q and r are required integers"), nil
	}

	var info engine.HexInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, fmt.Sprintf("/hexes/%d/%d", q, r)), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHexInfo(&info)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatBoard renders the board in odd-r rows with pieces drawn as their
// player number. Odd rows are indented to suggest the hex offset.
func formatBoard(state *engine.GameState) string {
	if len(state.Board) == 0 {
		return ""
	}
	spawns := make([]board.Spawn, 0, len(state.Pieces))
	for _, p := range state.Pieces {
		spawns = append(spawns, board.Spawn{Player: p.Player, Coord: p.Pos})
	}
	rows, _ := board.FromHexes(state.Board).Layout(spawns)

	var b strings.Builder
	for i, row := range rows {
		if i%2 == 1 {
			b.WriteString(" ")
		}
		for j, ch := range row {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteRune(ch)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turn: %d | Player: %d | Phase: %s | Moves: %d\n\n",
		state.Turn, state.CurrentPlayer, state.Phase, state.TotalMoves)

	b.WriteString(formatBoard(state))
	b.WriteString("\n")

	b.WriteString("Pieces:\n")
	for _, p := range state.Pieces {
		marker := ""
		if p.ID == state.SelectedPiece {
			marker = " (selected)"
		}
		fmt.Fprintf(&b, "  %s player %d at (%d,%d)%s\n", p.ID, p.Player, p.Pos.Q, p.Pos.R, marker)
	}

	if pc := state.Cards[state.CurrentPlayer]; pc != nil {
		b.WriteString("Hand:")
		if len(pc.Hand) == 0 {
			b.WriteString(" (empty)")
		}
		for _, card := range pc.Hand {
			marker := ""
			if card.ID == pc.Selected {
				marker = "*"
			}
			fmt.Fprintf(&b, " [%s %s%s]", card.ID, card, marker)
		}
		b.WriteString("\n")
		if len(pc.Pending) > 0 {
			b.WriteString("Pending (land before playing):")
			for _, card := range pc.Pending {
				fmt.Fprintf(&b, " [%s %s]", card.ID, card)
			}
			b.WriteString("\n")
		}
	}

	if state.Winner != 0 {
		fmt.Fprintf(&b, "\n🎉 VICTORY! Player %d reached the diamond.", state.Winner)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\n%s", state.Message)
	}
	return b.String()
}

func formatReachable(view *engine.ReachableView) string {
	if len(view.Destinations) == 0 {
		return fmt.Sprintf("%s at (%d,%d) cannot move. Land pending cards or end the turn.",
			view.PieceID, view.Origin.Q, view.Origin.R)
	}

	dests := append([]hexgrid.Coord(nil), view.Destinations...)
	sort.Slice(dests, func(i, j int) bool {
		return hexgrid.Distance(view.Origin, dests[i]) < hexgrid.Distance(view.Origin, dests[j])
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s at (%d,%d) can reach %d hexes:\n", view.PieceID, view.Origin.Q, view.Origin.R, len(dests))
	for _, d := range dests {
		entry := view.Entries[hexgrid.Key(d)]
		fmt.Fprintf(&b, "  (%d,%d) via card %s, %d steps\n", d.Q, d.R, entry.CardID, entry.Steps())
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	o := result.Outcome
	if result.Success {
		fmt.Fprintf(&b, "✓ Move successful: %s (%d,%d) -> (%d,%d) using %s\n", o.PieceID, o.From.Q, o.From.R, o.To.Q, o.To.R, o.CardID)
	} else {
		fmt.Fprintf(&b, "✗ Move failed: %s\n", o.Reason)
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if o.HandEmpty && !o.Victory {
		b.WriteString("Hand is empty. End the turn.\n")
	}
	if result.Remaining != nil && len(result.Remaining.Destinations) > 0 {
		b.WriteString("\n" + formatReachable(result.Remaining))
	}
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatHexInfo(info *engine.HexInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hex (%d,%d):\n━━━━━━━━━━━━━━━━━━━━━━━━\n", info.Coord.Q, info.Coord.R)
	if !info.OnBoard {
		b.WriteString("Off the board - IMPASSABLE\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Terrain: %s\nEnterable: %v\n", info.Terrain, info.Terrain.Enterable())
	if info.Texture != "" {
		fmt.Fprintf(&b, "Texture: %s\n", info.Texture)
	}
	if info.Piece != nil {
		fmt.Fprintf(&b, "Occupied by: %s (player %d)\n", info.Piece.ID, info.Piece.Player)
	}
	if info.Reachable {
		fmt.Fprintf(&b, "Reachable by the selected piece with card %s in %d steps\n", info.CardID, len(info.Path)-1)
	}
	if info.DistanceToDiamond >= 0 {
		fmt.Fprintf(&b, "Distance to nearest diamond: %d\n", info.DistanceToDiamond)
	}
	return b.String()
}

func formatHistoryEntry(num int, move engine.MoveHistoryEntry) string {
	status := "✓"
	if !move.Success {
		status = "✗"
	}
	card := move.CardID
	if move.Card != nil {
		card = move.Card.String()
	}
	victory := ""
	if move.Victory {
		victory = " 💎"
	}
	return fmt.Sprintf("%d. T%d %s (%d,%d)->(%d,%d) [%s] %s%s\n",
		num, move.Turn, move.PieceID,
		move.FromPosition.Q, move.FromPosition.R, move.ToPosition.Q, move.ToPosition.R,
		card, status, victory)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)
	for _, move := range history.Moves {
		b.WriteString(formatHistoryEntry(move.MoveNumber, move))
	}
	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment, Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		b.WriteString(formatHistoryEntry(i+1, move))
	}
	return b.String()
}
