package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Progress is the last observed position of a game. The manager records it
// whenever a session is created, loaded or saved, so listing and expiry
// never read an engine another goroutine may be mutating.
type Progress struct {
	Turn       int          `json:"turn"`
	Player     int          `json:"current_player"`
	Phase      engine.Phase `json:"phase"`
	Winner     int          `json:"winner,omitempty"`
	FinishedAt time.Time    `json:"finished_at,omitempty"`
}

// Finished reports whether the game has a winner.
func (p Progress) Finished() bool { return p.Winner != 0 }

// Retention decides how long idle sessions stay in memory. Finished games
// have nothing left to play and use the shorter window.
type Retention struct {
	Idle     time.Duration
	Finished time.Duration
}

// DefaultRetention keeps unfinished games for a day and won games for an hour.
var DefaultRetention = Retention{Idle: 24 * time.Hour, Finished: time.Hour}

// Stats counts the sessions held in memory.
type Stats struct {
	Sessions   int `json:"sessions"`
	InProgress int `json:"in_progress"`
	Won        int `json:"won"`
}

type entry struct {
	session  *service.Session
	progress Progress
}

// Manager keeps hex game sessions in memory, keyed by lower-case ID, and
// writes them through to an optional store.
type Manager struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	persistence SessionPersistence
	logger      *zap.Logger
}

// NewManager creates a memory-only manager.
func NewManager(logger *zap.Logger) *Manager {
	return NewManagerWithPersistence(nil, logger)
}

// NewManagerWithPersistence creates a manager backed by persistence.
func NewManagerWithPersistence(persistence SessionPersistence, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		entries:     make(map[string]*entry),
		persistence: persistence,
		logger:      logger.Named("session"),
	}
}

func key(id string) string { return strings.ToLower(id) }

// observe reads the engine. Callers must own the session's engine.
func observe(sess *service.Session, prev Progress) Progress {
	eng := sess.Engine
	p := Progress{
		Turn:   eng.Turn(),
		Player: eng.CurrentPlayer(),
		Phase:  eng.Phase(),
		Winner: eng.Winner(),
	}
	switch {
	case !p.Finished():
	case prev.Winner == p.Winner:
		p.FinishedAt = prev.FinishedAt
	default:
		p.FinishedAt = time.Now()
	}
	return p
}

// Create starts a game on config under id. An empty id gets a fresh
// 4-character hex ID and a nil config plays the built-in map.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	} else if _, ok := m.entries[key(id)]; ok {
		return nil, ErrSessionAlreadyExists
	}
	if config == nil {
		config = engine.DefaultGameConfig()
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	now := time.Now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         eng.GetConfig(),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.entries[key(id)] = &entry{session: sess, progress: observe(sess, Progress{})}

	if m.persistence != nil {
		if err := m.persistence.Save(sess); err != nil {
			m.logger.Warn("failed to persist new session", zap.String("session_id", id), zap.Error(err))
		}
	}
	m.logger.Debug("session created",
		zap.String("session_id", id),
		zap.String("config", config.Name),
		zap.Int("players", eng.GetConfig().Players))
	return sess, nil
}

// Get returns a session, loading it from storage when it is not in memory.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	e, ok := m.entries[key(id)]
	m.mu.RUnlock()
	if ok {
		return e.session, nil
	}

	if m.persistence == nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}
	sess, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it meanwhile.
	if e, ok := m.entries[key(id)]; ok {
		return e.session, nil
	}
	m.entries[key(id)] = &entry{session: sess, progress: observe(sess, Progress{})}
	return sess, nil
}

// Progress returns the last observed progress of a session in memory.
func (m *Manager) Progress(id string) (Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key(id)]
	if !ok {
		return Progress{}, ErrSessionNotFound
	}
	return e.progress, nil
}

// List returns the sessions in memory: games still being played first, then
// the most recently accessed, then by ID.
func (m *Manager) List() []*service.Session {
	type listed struct {
		session  *service.Session
		finished bool
		accessed time.Time
	}
	m.mu.RLock()
	items := make([]listed, 0, len(m.entries))
	for _, e := range m.entries {
		items = append(items, listed{e.session, e.progress.Finished(), e.session.LastAccessedAt})
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.finished != b.finished {
			return !a.finished
		}
		if !a.accessed.Equal(b.accessed) {
			return a.accessed.After(b.accessed)
		}
		return a.session.ID < b.session.ID
	})

	result := make([]*service.Session, len(items))
	for i, it := range items {
		result[i] = it.session
	}
	return result
}

// Delete removes a session from memory and storage.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, inMemory := m.entries[key(id)]
	delete(m.entries, key(id))

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}
	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// Evict drops a session from memory and leaves storage alone.
func (m *Manager) Evict(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.entries, key(id))
	return nil
}

// UpdateLastAccessed marks a session as used now.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	e.session.LastAccessedAt = time.Now()
	return nil
}

// Save records the session's progress and writes it to storage. Callers
// must own the session's engine, as the game service does after every
// action.
func (m *Manager) Save(id string) error {
	m.mu.Lock()
	e, ok := m.entries[key(id)]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	before := e.progress
	e.progress = observe(e.session, before)
	sess, after := e.session, e.progress
	m.mu.Unlock()

	if after.Finished() && !before.Finished() {
		m.logger.Info("game finished",
			zap.String("session_id", sess.ID),
			zap.Int("winner", after.Winner),
			zap.Int("turn", after.Turn))
	}
	if m.persistence == nil {
		return nil
	}
	return m.persistence.Save(sess)
}

// Expire drops sessions from memory that sat idle past the retention
// window for their state. Stored copies stay and load again on demand.
func (m *Manager) Expire(r Retention) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed, finished := 0, 0
	for k, e := range m.entries {
		idle := now.Sub(e.session.LastAccessedAt)
		switch {
		case e.progress.Finished() && r.Finished > 0 && idle > r.Finished:
			finished++
		case r.Idle > 0 && idle > r.Idle:
		default:
			continue
		}
		delete(m.entries, k)
		removed++
	}

	if removed > 0 {
		m.logger.Info("expired sessions removed from memory",
			zap.Int("count", removed),
			zap.Int("finished", finished),
			zap.Duration("idle", r.Idle),
			zap.Duration("finished_after", r.Finished))
	}
	return removed
}

// Stats counts sessions in memory by state.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{Sessions: len(m.entries)}
	for _, e := range m.entries {
		if e.progress.Finished() {
			s.Won++
		} else {
			s.InProgress++
		}
	}
	return s
}

// Count returns the number of sessions in memory.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// generateSessionID returns a 4-character hex ID unused in memory and in
// storage. Callers hold m.mu.
func (m *Manager) generateSessionID() string {
	buf := make([]byte, 2)
	for {
		rand.Read(buf)
		id := hex.EncodeToString(buf)
		if _, ok := m.entries[id]; ok {
			continue
		}
		if m.persistence != nil && m.persistence.Exists(id) {
			continue
		}
		return id
	}
}

// LoadPersistedSessions loads every stored session not already in memory.
// Unreadable records are logged and skipped.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}
	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var stats Stats
	for _, id := range ids {
		if _, ok := m.entries[key(id)]; ok {
			continue
		}
		sess, err := m.persistence.Load(id)
		if err != nil {
			m.logger.Warn("failed to load persisted session", zap.String("session_id", id), zap.Error(err))
			continue
		}
		e := &entry{session: sess, progress: observe(sess, Progress{})}
		m.entries[key(id)] = e
		stats.Sessions++
		if e.progress.Finished() {
			stats.Won++
		} else {
			stats.InProgress++
		}
	}

	if stats.Sessions > 0 {
		m.logger.Info("loaded persisted sessions",
			zap.Int("count", stats.Sessions),
			zap.Int("in_progress", stats.InProgress),
			zap.Int("won", stats.Won))
	}
	return nil
}

// Flush writes every session in memory to storage. The game service must be
// idle, as it is during shutdown.
func (m *Manager) Flush() error {
	if m.persistence == nil {
		return nil
	}
	failed := 0
	for _, sess := range m.List() {
		if err := m.Save(sess.ID); err != nil {
			m.logger.Warn("failed to save session", zap.String("session_id", sess.ID), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}
