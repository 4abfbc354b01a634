package engine

import (
	"fmt"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/reach"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsWon() bool
	Winner() int
	CurrentPlayer() int
	Phase() Phase

	// Turn flow
	StartTurn()
	EndTurn() bool
	SelectPiece(pieceID string) bool
	SelectCard(cardID string) bool
	LandCards(cardIDs ...string) int

	// Movement operations
	Reachable(pieceID string) reach.Result
	Move(pieceID string, dest hexgrid.Coord) MoveOutcome
	ApplyMove(pieceID string, path []hexgrid.Coord, cardID string) MoveOutcome
	HasAnyMoves() bool

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// reachCache memoizes the last reachability query. It is valid only while
// version matches the engine's mutation counter.
type reachCache struct {
	pieceID string
	version uint64
	result  reach.Result
	valid   bool
}

// GameEngine implements the Engine interface. It is the session aggregate
// and is not safe for concurrent use.
type GameEngine struct {
	config *GameConfig

	board         *board.Board
	pieces        []Piece
	store         *cards.Store
	currentPlayer int
	turn          int
	phase         Phase
	selectedPiece string
	winner        int
	message       string

	moveHistory       []MoveHistoryEntry
	totalMoves        int
	currentMoves      []MoveHistoryEntry
	currentMovesCount int

	version uint64
	cache   reachCache
}

// NewEngine creates a new game engine with the provided configuration and
// starts the first turn.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{config: seedGenerator(WithDefaults(config))}
	if err := engine.setup(); err != nil {
		return nil, err
	}
	engine.StartTurn()
	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in map
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultGameConfig())
	if err != nil {
		panic(fmt.Sprintf("built-in config is invalid: %v", err))
	}
	return engine
}

// setup rebuilds board, pieces, and cards from the config.
func (e *GameEngine) setup() error {
	b, spawns, err := BuildBoard(e.config)
	if err != nil {
		return err
	}
	e.board = b
	e.pieces = spawnPieces(spawns)
	e.store = e.newStore()
	for p := 1; p <= e.config.Players; p++ {
		e.store.EnsurePlayer(p)
	}
	e.currentPlayer = 1
	e.turn = 1
	e.phase = PhaseTurnStart
	e.selectedPiece = ""
	e.winner = 0
	e.message = e.config.Messages.Welcome
	e.invalidate()
	return nil
}

func (e *GameEngine) newStore() *cards.Store {
	opts := []cards.Option{cards.WithReshuffleDiscard(e.config.Rules.ReshuffleDiscard)}
	if e.config.Seed != 0 {
		opts = append(opts, cards.WithSeed(e.config.Seed))
	}
	return cards.NewStore(e.config.Deck, opts...)
}

// invalidate drops the cached reachability result. Every mutation of
// pieces, hands, or selection must call it.
func (e *GameEngine) invalidate() {
	e.version++
	e.cache.valid = false
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		ConfigName:        e.config.Name,
		Board:             e.board.Hexes(),
		Pieces:            append([]Piece(nil), e.pieces...),
		Cards:             e.store.Snapshot(),
		Players:           e.config.Players,
		CurrentPlayer:     e.currentPlayer,
		Turn:              e.turn,
		Phase:             e.phase,
		SelectedPiece:     e.selectedPiece,
		Winner:            e.winner,
		Message:           e.message,
		MoveHistory:       append([]MoveHistoryEntry{}, e.moveHistory...),
		TotalMoves:        e.totalMoves,
		CurrentMoves:      append([]MoveHistoryEntry{}, e.currentMoves...),
		CurrentMovesCount: e.currentMovesCount,
	}
}

// SetState restores a snapshot (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Board) == 0 {
		return fmt.Errorf("state has no board")
	}
	seen := make(map[hexgrid.Coord]string, len(state.Pieces))
	for _, p := range state.Pieces {
		if other, ok := seen[p.Pos]; ok {
			return fmt.Errorf("pieces %s and %s share %s", other, p.ID, hexgrid.Key(p.Pos))
		}
		seen[p.Pos] = p.ID
	}

	e.board = board.FromHexes(state.Board)
	e.pieces = append([]Piece(nil), state.Pieces...)
	e.store = e.newStore()
	e.store.Restore(state.Cards)
	e.currentPlayer = state.CurrentPlayer
	if e.currentPlayer < 1 {
		e.currentPlayer = 1
	}
	e.turn = state.Turn
	e.phase = state.Phase
	e.selectedPiece = state.SelectedPiece
	e.winner = state.Winner
	e.message = state.Message
	e.moveHistory = append([]MoveHistoryEntry{}, state.MoveHistory...)
	e.totalMoves = state.TotalMoves
	e.currentMoves = append([]MoveHistoryEntry{}, state.CurrentMoves...)
	e.currentMovesCount = state.CurrentMovesCount
	e.invalidate()
	return nil
}

// Reset restarts the game from the config. Cumulative history survives.
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.moveHistory
	prevTotal := e.totalMoves

	if err := e.setup(); err != nil {
		// the config was validated when it was installed
		panic(fmt.Sprintf("reset: %v", err))
	}

	// Restore cumulative history and totals; clear only the current segment
	e.moveHistory = prevHistory
	e.totalMoves = prevTotal
	e.currentMoves = []MoveHistoryEntry{}
	e.currentMovesCount = 0

	e.StartTurn()
	return e.GetState()
}

// IsWon reports whether a player has reached a diamond
func (e *GameEngine) IsWon() bool {
	return e.winner != 0
}

// Winner returns the winning player, or 0
func (e *GameEngine) Winner() int {
	return e.winner
}

// CurrentPlayer returns the acting player
func (e *GameEngine) CurrentPlayer() int {
	return e.currentPlayer
}

// Phase returns the turn phase
func (e *GameEngine) Phase() Phase {
	return e.phase
}

// Turn returns the turn counter, starting at 1
func (e *GameEngine) Turn() int {
	return e.turn
}

// Message returns the latest player-facing message
func (e *GameEngine) Message() string {
	return e.message
}

// Board returns the live board. Callers must not modify it.
func (e *GameEngine) Board() *board.Board {
	return e.board
}

// Pieces returns a copy of all pieces
func (e *GameEngine) Pieces() []Piece {
	return append([]Piece(nil), e.pieces...)
}

// Piece returns a piece by id
func (e *GameEngine) Piece(id string) (Piece, bool) {
	idx := e.pieceIndex(id)
	if idx < 0 {
		return Piece{}, false
	}
	return e.pieces[idx], true
}

// PieceAt returns the piece standing on c
func (e *GameEngine) PieceAt(c hexgrid.Coord) (Piece, bool) {
	for _, p := range e.pieces {
		if p.Pos == c {
			return p, true
		}
	}
	return Piece{}, false
}

// Occupied implements reach.Occupancy over the current pieces
func (e *GameEngine) Occupied(c hexgrid.Coord) bool {
	_, ok := e.PieceAt(c)
	return ok
}

// SelectedPiece returns the selected piece id
func (e *GameEngine) SelectedPiece() string {
	return e.selectedPiece
}

// Hand returns a player's playable cards
func (e *GameEngine) Hand(player int) []cards.Card {
	return e.store.Hand(player)
}

// PendingCards returns a player's drawn but not yet landed cards
func (e *GameEngine) PendingCards(player int) []cards.Card {
	return e.store.Pending(player)
}

// SelectedCard returns the acting player's pre-selected card
func (e *GameEngine) SelectedCard() (cards.Card, bool) {
	return e.store.Selected(e.currentPlayer)
}

// HandEmpty reports whether the acting player has no playable cards
func (e *GameEngine) HandEmpty() bool {
	return e.store.HandEmpty(e.currentPlayer)
}

// PlayableTerrains lists the terrains the acting player can currently enter
func (e *GameEngine) PlayableTerrains() []board.Terrain {
	set := e.store.PlayableTerrains(e.currentPlayer)
	var out []board.Terrain
	for _, t := range board.Terrains {
		if set.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and restarts the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	prev := e.config
	e.config = seedGenerator(WithDefaults(config))
	if err := e.setup(); err != nil {
		e.config = prev
		return err
	}
	e.StartTurn()
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

func (e *GameEngine) pieceIndex(id string) int {
	for i, p := range e.pieces {
		if p.ID == id {
			return i
		}
	}
	return -1
}
