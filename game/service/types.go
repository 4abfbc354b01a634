package service

import (
	"time"

	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool               `json:"success"`
	Outcome   engine.MoveOutcome `json:"outcome"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
	// Remaining lists what the moved piece's owner can still reach this
	// turn, so clients can skip a follow-up query.
	Remaining *engine.ReachableView `json:"remaining,omitempty"`
}

// ReachableResult is the reachability of one piece in a session
type ReachableResult struct {
	SessionID string `json:"session_id"`
	engine.ReachableView
	Player        int          `json:"player"`
	CurrentPlayer int          `json:"current_player"`
	Phase         engine.Phase `json:"phase"`
	HasAnyMoves   bool         `json:"has_any_moves"`
}

// Event types emitted by the service
const (
	EventMove      = "move"
	EventRejected  = "move_rejected"
	EventVictory   = "victory"
	EventHandEmpty = "hand_empty"
	EventNoMoves   = "no_moves"
	EventReset     = "reset"
	EventTurnStart = "turn_start"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Player    int            `json:"player,omitempty"`
	Position  *hexgrid.Coord `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a map configuration
type ConfigInfo struct {
	Filename    string       `json:"filename"`
	ConfigID    string       `json:"config_id"` // The identifier to use for session creation
	Name        string       `json:"name"`      // Display name
	Description string       `json:"description"`
	Players     int          `json:"players"`
	HandSize    int          `json:"hand_size"`
	Hexes       int          `json:"hexes"`
	Generated   bool         `json:"generated"`
	Rules       engine.Rules `json:"rules"`
}
