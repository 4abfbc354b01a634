package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.Named("service"),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) info(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// session looks a session up and marks it accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Debug("failed to update last accessed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return sess, nil
}

// persist auto-saves a session after a mutation
func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session",
			zap.String("session_id", sessionID),
			zap.String("after", after),
			zap.Error(err))
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate the ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("config", config.Name),
		zap.Int("players", sess.Engine.GetConfig().Players))

	configID, _ := engine.ConfigBaseName(configName)
	return s.info(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// SelectPiece selects one of the acting player's pieces
func (s *gameServiceImpl) SelectPiece(ctx context.Context, sessionID, pieceID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	eng := sess.Engine
	if eng.IsWon() {
		return nil, ErrGameWon
	}
	p, ok := eng.Piece(pieceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPieceNotFound, pieceID)
	}
	if p.Player != eng.CurrentPlayer() {
		return nil, fmt.Errorf("%w: %s is player %d's, player %d to move", ErrNotYourPiece, pieceID, p.Player, eng.CurrentPlayer())
	}
	eng.SelectPiece(pieceID)

	s.persist(sessionID, "select piece")
	return eng.GetState(), nil
}

// SelectCard toggles the pre-selected card. An empty id clears it.
func (s *gameServiceImpl) SelectCard(ctx context.Context, sessionID, cardID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	eng := sess.Engine
	if eng.IsWon() {
		return nil, ErrGameWon
	}
	if !eng.SelectCard(cardID) {
		return nil, fmt.Errorf("%w: %s", ErrCardNotInHand, cardID)
	}

	s.persist(sessionID, "select card")
	return eng.GetState(), nil
}

// LandCards commits pending cards to the acting player's hand. With no ids
// every pending card lands; naming ids that are not pending is an error.
func (s *gameServiceImpl) LandCards(ctx context.Context, sessionID string, cardIDs []string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	eng := sess.Engine
	if eng.IsWon() {
		return nil, ErrGameWon
	}
	n := eng.LandCards(cardIDs...)
	if n == 0 && len(cardIDs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrNothingPending, cardIDs)
	}
	if n > 0 {
		s.persist(sessionID, "land cards")
	}
	return eng.GetState(), nil
}

// EndTurn passes play to the next player
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Engine.EndTurn() {
		return nil, ErrGameWon
	}
	s.logger.Debug("turn ended",
		zap.String("session_id", sessionID),
		zap.Int("turn", sess.Engine.Turn()),
		zap.Int("current_player", sess.Engine.CurrentPlayer()))

	s.persist(sessionID, "end turn")
	return sess.Engine.GetState(), nil
}

// Reachable returns where a piece can move. An empty pieceID means the
// selected piece.
func (s *gameServiceImpl) Reachable(ctx context.Context, sessionID, pieceID string) (*ReachableResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	eng := sess.Engine
	if pieceID == "" {
		pieceID = eng.SelectedPiece()
	}
	p, ok := eng.Piece(pieceID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPieceNotFound, pieceID)
	}

	return &ReachableResult{
		SessionID:     sess.ID,
		ReachableView: eng.ReachableView(pieceID),
		Player:        p.Player,
		CurrentPlayer: eng.CurrentPlayer(),
		Phase:         eng.Phase(),
		HasAnyMoves:   eng.HasAnyMoves(),
	}, nil
}

// Move moves a piece to a reachable destination. Rule violations are
// reported in the result, not as errors.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, pieceID string, dest hexgrid.Coord) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	eng := sess.Engine

	outcome := eng.Move(pieceID, dest)
	result := &MoveResult{
		Success: outcome.Success,
		Outcome: outcome,
		Message: outcome.Message,
		Events:  s.moveEvents(eng, outcome),
	}

	if outcome.Success {
		if !outcome.Victory {
			view := eng.ReachableView(outcome.PieceID)
			result.Remaining = &view
		}
		s.logger.Debug("piece moved",
			zap.String("session_id", sessionID),
			zap.String("piece_id", outcome.PieceID),
			zap.String("card_id", outcome.CardID),
			zap.Stringer("from", outcome.From),
			zap.Stringer("to", outcome.To),
			zap.Bool("victory", outcome.Victory))
		if outcome.Victory {
			s.logger.Info("game won",
				zap.String("session_id", sessionID),
				zap.Int("winner", outcome.Winner))
		}
		// Auto-save session after move
		s.persist(sessionID, "move")
	}

	result.GameState = eng.GetState()
	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	state := sess.Engine.Reset()

	// Auto-save session after reset
	s.persist(sessionID, "reset")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// DescribeHex reports terrain, occupant and reachability of one hex
func (s *gameServiceImpl) DescribeHex(ctx context.Context, sessionID string, c hexgrid.Coord) (*engine.HexInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	info := sess.Engine.DescribeHex(c)
	return &info, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available map configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific map configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a map configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", zap.String("config", configName))
	return nil
}

// moveEvents generates events from a move outcome
func (s *gameServiceImpl) moveEvents(eng *engine.GameEngine, outcome engine.MoveOutcome) []GameEvent {
	now := time.Now()
	to := outcome.To

	if !outcome.Success {
		return []GameEvent{{
			Type:      EventRejected,
			Message:   fmt.Sprintf("%s: %s", outcome.Reason, outcome.Message),
			Timestamp: now,
			Player:    outcome.Player,
			Position:  &to,
		}}
	}

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("%s moved %s -> %s using %s", outcome.PieceID, outcome.From, outcome.To, outcome.CardID),
		Timestamp: now,
		Player:    outcome.Player,
		Position:  &to,
	}}

	if outcome.Victory {
		return append(events, GameEvent{
			Type:      EventVictory,
			Message:   outcome.Message,
			Timestamp: now,
			Player:    outcome.Winner,
			Position:  &to,
		})
	}
	if outcome.HandEmpty {
		events = append(events, GameEvent{
			Type:      EventHandEmpty,
			Message:   fmt.Sprintf("Player %d has no cards left", outcome.Player),
			Timestamp: now,
			Player:    outcome.Player,
		})
	}
	if !eng.HasAnyMoves() {
		events = append(events, GameEvent{
			Type:      EventNoMoves,
			Message:   eng.GetConfig().Messages.NoMoves,
			Timestamp: now,
			Player:    outcome.Player,
		})
	}
	return events
}
