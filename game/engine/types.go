package engine

import (
	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/reach"
)

// Phase is a step of the turn state machine.
type Phase string

const (
	PhaseTurnStart           Phase = "turn_start"
	PhaseAwaitingSelection   Phase = "awaiting_selection"
	PhaseAwaitingDestination Phase = "awaiting_destination"
	PhaseMoving              Phase = "moving"
	PhaseTurnEnd             Phase = "turn_end"
	PhaseWon                 Phase = "won"

	// Validation constants
	DefaultPlayers      = 2
	MaxPlayers          = 6
	DefaultHandSize     = 3
	MaxHandSize         = 10
	MaxLayoutRows       = 64
	MinRadius           = 2
	MaxRadius           = 30
	WebSocketBufferSize = 256
)

// Move failure reasons reported in MoveOutcome.Reason.
const (
	ReasonGameWon            = "game_won"
	ReasonPieceNotFound      = "piece_not_found"
	ReasonNotYourPiece       = "not_your_piece"
	ReasonInvalidDestination = "invalid_destination"
	ReasonInvalidPath        = "invalid_path"
	ReasonCardNotInHand      = "card_not_in_hand"
	ReasonOccupied           = "occupied"
)

// Piece is a player token on the board.
type Piece struct {
	ID     string        `json:"id"`
	Player int           `json:"player"`
	Pos    hexgrid.Coord `json:"pos"`
}

// Rules toggles optional game rules.
type Rules struct {
	// ReshuffleDiscard refills an exhausted deck from the discard pile
	// instead of a fresh copy of the starting cards.
	ReshuffleDiscard bool `json:"reshuffle_discard" yaml:"reshuffle_discard"`
	// DiamondWildcard lets any card end its move on a diamond hex.
	DiamondWildcard bool `json:"diamond_wildcard" yaml:"diamond_wildcard"`
	// AutoLand moves drawn cards straight into the hand for clients that
	// do not animate draws.
	AutoLand bool `json:"auto_land" yaml:"auto_land"`
}

// Messages holds player-facing text. Format verbs receive a player number.
type Messages struct {
	Welcome     string `json:"welcome" yaml:"welcome"`
	TurnStart   string `json:"turn_start" yaml:"turn_start"`
	Victory     string `json:"victory" yaml:"victory"`
	InvalidMove string `json:"invalid_move" yaml:"invalid_move"`
	NoMoves     string `json:"no_moves" yaml:"no_moves"`
}

// GameConfig represents a map and its rules, loaded from JSON or YAML.
type GameConfig struct {
	Name        string                       `json:"name" yaml:"name"`
	Description string                       `json:"description" yaml:"description"`
	Layout      []string                     `json:"layout,omitempty" yaml:"layout,omitempty"`
	Legend      map[string]board.LegendEntry `json:"legend,omitempty" yaml:"legend,omitempty"`
	Generator   *board.GenConfig             `json:"generator,omitempty" yaml:"generator,omitempty"`
	Players     int                          `json:"players,omitempty" yaml:"players,omitempty"`
	HandSize    int                          `json:"hand_size,omitempty" yaml:"hand_size,omitempty"`
	Deck        []cards.CardSpec             `json:"deck,omitempty" yaml:"deck,omitempty"`
	Rules       Rules                        `json:"rules" yaml:"rules"`
	Seed        int64                        `json:"seed,omitempty" yaml:"seed,omitempty"`
	Messages    Messages                     `json:"messages" yaml:"messages"`
}

// GameState is a serializable snapshot of a game.
type GameState struct {
	ConfigName    string                     `json:"config_name"`
	Board         []board.Hex                `json:"board"`
	Pieces        []Piece                    `json:"pieces"`
	Cards         map[int]*cards.PlayerCards `json:"cards"`
	Players       int                        `json:"players"`
	CurrentPlayer int                        `json:"current_player"`
	Turn          int                        `json:"turn"`
	Phase         Phase                      `json:"phase"`
	SelectedPiece string                     `json:"selected_piece,omitempty"`
	Winner        int                        `json:"winner,omitempty"`
	Message       string                     `json:"message"`
	MoveHistory   []MoveHistoryEntry         `json:"move_history"`
	TotalMoves    int                        `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	PieceID      string          `json:"piece_id"`
	Player       int             `json:"player"`
	CardID       string          `json:"card_id"`
	Card         *cards.Card     `json:"card,omitempty"`
	FromPosition hexgrid.Coord   `json:"from_position"`
	ToPosition   hexgrid.Coord   `json:"to_position"`
	Path         []hexgrid.Coord `json:"path"`
	Turn         int             `json:"turn"`
	Timestamp    int64           `json:"timestamp"`
	Success      bool            `json:"success"`
	Victory      bool            `json:"victory,omitempty"`
	MoveNumber   int             `json:"move_number"`
}

// MoveOutcome reports the effect of a move request.
type MoveOutcome struct {
	Success   bool            `json:"success"`
	Reason    string          `json:"reason,omitempty"`
	PieceID   string          `json:"piece_id"`
	Player    int             `json:"player"`
	CardID    string          `json:"card_id,omitempty"`
	From      hexgrid.Coord   `json:"from"`
	To        hexgrid.Coord   `json:"to"`
	Path      []hexgrid.Coord `json:"path,omitempty"`
	Victory   bool            `json:"victory"`
	Winner    int             `json:"winner,omitempty"`
	HandEmpty bool            `json:"hand_empty"`
	Message   string          `json:"message,omitempty"`
}

// ReachableView is the reachability result of one piece in a transport
// friendly form.
type ReachableView struct {
	PieceID      string                 `json:"piece_id"`
	Origin       hexgrid.Coord          `json:"origin"`
	Destinations []hexgrid.Coord        `json:"destinations"`
	Entries      map[string]reach.Entry `json:"entries"`
}
