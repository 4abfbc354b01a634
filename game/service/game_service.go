package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

var (
	ErrPieceNotFound  = errors.New("piece not found")
	ErrNotYourPiece   = errors.New("piece belongs to another player")
	ErrCardNotInHand  = errors.New("card not in hand")
	ErrGameWon        = errors.New("game already won")
	ErrNothingPending = errors.New("no pending cards to land")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn flow
	SelectPiece(ctx context.Context, sessionID, pieceID string) (*engine.GameState, error)
	SelectCard(ctx context.Context, sessionID, cardID string) (*engine.GameState, error)
	LandCards(ctx context.Context, sessionID string, cardIDs []string) (*engine.GameState, error)
	EndTurn(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game Operations
	Reachable(ctx context.Context, sessionID, pieceID string) (*ReachableResult, error)
	Move(ctx context.Context, sessionID, pieceID string, dest hexgrid.Coord) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeHex(ctx context.Context, sessionID string, c hexgrid.Coord) (*engine.HexInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
