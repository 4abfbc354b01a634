package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/service"
)

// SQLitePersistence implements SessionPersistence on a SQLite database.
// Session state is stored as JSON; move history goes to its own table and
// is appended incrementally.
type SQLitePersistence struct {
	conn          *sqlx.DB
	configManager service.ConfigManager
	logger        *zap.Logger
}

type sessionRow struct {
	ID             string `db:"id"`
	ConfigName     string `db:"config_name"`
	CreatedAt      int64  `db:"created_at"`
	LastAccessedAt int64  `db:"last_accessed_at"`
	Turn           int    `db:"turn"`
	Winner         int    `db:"winner"`
	ConfigJSON     string `db:"config_json"`
	StateJSON      string `db:"state_json"`
}

type moveRow struct {
	SessionID  string `db:"session_id"`
	MoveNumber int    `db:"move_number"`
	PieceID    string `db:"piece_id"`
	Player     int    `db:"player"`
	CardID     string `db:"card_id"`
	CardJSON   string `db:"card_json"`
	FromQ      int    `db:"from_q"`
	FromR      int    `db:"from_r"`
	ToQ        int    `db:"to_q"`
	ToR        int    `db:"to_r"`
	PathJSON   string `db:"path_json"`
	Turn       int    `db:"turn"`
	Timestamp  int64  `db:"ts"`
	Success    bool   `db:"success"`
	Victory    bool   `db:"victory"`
}

// NewSQLitePersistence opens or creates a SQLite database at the given path.
func NewSQLitePersistence(path string, configManager service.ConfigManager, logger *zap.Logger) (*SQLitePersistence, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sp := &SQLitePersistence{conn: conn, configManager: configManager, logger: logger.Named("sqlite")}
	if err := sp.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return sp, nil
}

// Close closes the database connection.
func (sp *SQLitePersistence) Close() error {
	return sp.conn.Close()
}

func (sp *SQLitePersistence) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		config_name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		last_accessed_at INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS moves (
		session_id TEXT NOT NULL,
		move_number INTEGER NOT NULL,
		piece_id TEXT NOT NULL,
		player INTEGER NOT NULL,
		card_id TEXT NOT NULL,
		card_json TEXT NOT NULL,
		from_q INTEGER NOT NULL,
		from_r INTEGER NOT NULL,
		to_q INTEGER NOT NULL,
		to_r INTEGER NOT NULL,
		path_json TEXT NOT NULL,
		turn INTEGER NOT NULL,
		ts INTEGER NOT NULL,
		success INTEGER NOT NULL,
		victory INTEGER NOT NULL,
		PRIMARY KEY (session_id, move_number)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_last_accessed ON sessions(last_accessed_at);
	`
	_, err := sp.conn.Exec(schema)
	return err
}

// Save upserts the session row and appends moves not yet stored.
func (sp *SQLitePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	data := snapshot(session, configIDFromName(sp.configManager, session.Config.Name))

	// History lives in the moves table
	history := data.GameState.MoveHistory
	state := *data.GameState
	state.MoveHistory = nil

	configJSON, err := json.Marshal(data.GameConfig)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	stateJSON, err := json.Marshal(&state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tx, err := sp.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO sessions
		(id, config_name, created_at, last_accessed_at, turn, winner, config_json, state_json)
		VALUES (:id, :config_name, :created_at, :last_accessed_at, :turn, :winner, :config_json, :state_json)
		ON CONFLICT(id) DO UPDATE SET
			config_name = excluded.config_name,
			last_accessed_at = excluded.last_accessed_at,
			turn = excluded.turn,
			winner = excluded.winner,
			config_json = excluded.config_json,
			state_json = excluded.state_json`,
		sessionRow{
			ID:             data.ID,
			ConfigName:     data.ConfigName,
			CreatedAt:      data.CreatedAt.UnixNano(),
			LastAccessedAt: data.LastAccessedAt.UnixNano(),
			Turn:           state.Turn,
			Winner:         state.Winner,
			ConfigJSON:     string(configJSON),
			StateJSON:      string(stateJSON),
		})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	var stored int
	if err := tx.Get(&stored, "SELECT COALESCE(MAX(move_number), 0) FROM moves WHERE session_id = ?", data.ID); err != nil {
		return fmt.Errorf("count moves: %w", err)
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO moves
		(session_id, move_number, piece_id, player, card_id, card_json, from_q, from_r,
		 to_q, to_r, path_json, turn, ts, success, victory)
		VALUES (:session_id, :move_number, :piece_id, :player, :card_id, :card_json, :from_q, :from_r,
		 :to_q, :to_r, :path_json, :turn, :ts, :success, :victory)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	added := 0
	for _, m := range history {
		if m.MoveNumber <= stored {
			continue
		}
		row, err := toMoveRow(data.ID, m)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("save move %d: %w", m.MoveNumber, err)
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if added > 0 {
		sp.logger.Debug("moves appended", zap.String("session_id", data.ID), zap.Int("count", added))
	}
	return nil
}

// Load retrieves a session and its move history.
func (sp *SQLitePersistence) Load(id string) (*service.Session, error) {
	var row sessionRow
	err := sp.conn.Get(&row, "SELECT * FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	data := PersistedSessionData{
		ID:             row.ID,
		ConfigName:     row.ConfigName,
		CreatedAt:      time.Unix(0, row.CreatedAt),
		LastAccessedAt: time.Unix(0, row.LastAccessedAt),
		GameState:      &engine.GameState{},
	}
	if row.ConfigJSON != "" && row.ConfigJSON != "null" {
		data.GameConfig = &engine.GameConfig{}
		if err := json.Unmarshal([]byte(row.ConfigJSON), data.GameConfig); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(row.StateJSON), data.GameState); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}

	history, err := sp.History(id)
	if err != nil {
		return nil, err
	}
	data.GameState.MoveHistory = history

	return restore(data, sp.configManager)
}

// History returns a session's stored moves in order.
func (sp *SQLitePersistence) History(id string) ([]engine.MoveHistoryEntry, error) {
	var rows []moveRow
	err := sp.conn.Select(&rows, "SELECT * FROM moves WHERE session_id = ? ORDER BY move_number", id)
	if err != nil {
		return nil, fmt.Errorf("load moves: %w", err)
	}
	history := make([]engine.MoveHistoryEntry, 0, len(rows))
	for _, r := range rows {
		m, err := r.entry()
		if err != nil {
			return nil, err
		}
		history = append(history, m)
	}
	return history, nil
}

// Delete removes a session and its moves.
func (sp *SQLitePersistence) Delete(id string) error {
	tx, err := sp.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	if _, err := tx.Exec("DELETE FROM moves WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("delete moves: %w", err)
	}
	return tx.Commit()
}

// ListAll returns all persisted session IDs, most recently used first.
func (sp *SQLitePersistence) ListAll() ([]string, error) {
	var ids []string
	err := sp.conn.Select(&ids, "SELECT id FROM sessions ORDER BY last_accessed_at DESC")
	return ids, err
}

// Exists checks if a session row exists.
func (sp *SQLitePersistence) Exists(id string) bool {
	var n int
	if err := sp.conn.Get(&n, "SELECT COUNT(*) FROM sessions WHERE id = ?", id); err != nil {
		sp.logger.Warn("exists query failed", zap.String("session_id", id), zap.Error(err))
		return false
	}
	return n > 0
}

func toMoveRow(sessionID string, m engine.MoveHistoryEntry) (moveRow, error) {
	cardJSON, err := json.Marshal(m.Card)
	if err != nil {
		return moveRow{}, fmt.Errorf("marshal card: %w", err)
	}
	pathJSON, err := json.Marshal(m.Path)
	if err != nil {
		return moveRow{}, fmt.Errorf("marshal path: %w", err)
	}
	return moveRow{
		SessionID:  sessionID,
		MoveNumber: m.MoveNumber,
		PieceID:    m.PieceID,
		Player:     m.Player,
		CardID:     m.CardID,
		CardJSON:   string(cardJSON),
		FromQ:      m.FromPosition.Q,
		FromR:      m.FromPosition.R,
		ToQ:        m.ToPosition.Q,
		ToR:        m.ToPosition.R,
		PathJSON:   string(pathJSON),
		Turn:       m.Turn,
		Timestamp:  m.Timestamp,
		Success:    m.Success,
		Victory:    m.Victory,
	}, nil
}

func (r moveRow) entry() (engine.MoveHistoryEntry, error) {
	m := engine.MoveHistoryEntry{
		PieceID:      r.PieceID,
		Player:       r.Player,
		CardID:       r.CardID,
		FromPosition: hexgrid.Coord{Q: r.FromQ, R: r.FromR},
		ToPosition:   hexgrid.Coord{Q: r.ToQ, R: r.ToR},
		Turn:         r.Turn,
		Timestamp:    r.Timestamp,
		Success:      r.Success,
		Victory:      r.Victory,
		MoveNumber:   r.MoveNumber,
	}
	var card *cards.Card
	if err := json.Unmarshal([]byte(r.CardJSON), &card); err != nil {
		return m, fmt.Errorf("unmarshal card of move %d: %w", r.MoveNumber, err)
	}
	m.Card = card
	if err := json.Unmarshal([]byte(r.PathJSON), &m.Path); err != nil {
		return m, fmt.Errorf("unmarshal path of move %d: %w", r.MoveNumber, err)
	}
	return m, nil
}
