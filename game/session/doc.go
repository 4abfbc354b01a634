// Package session provides session management for the Hex Diamond game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Pluggable persistence (JSON files or SQLite)
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns an engine instance plus creation and last
// access times.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with a session held in
// memory or in storage.
//
// Persistence:
//
// FilePersistence writes one JSON document per session. SQLitePersistence
// keeps a sessions table with the state as JSON and appends move history
// to a moves table. Both embed the map config so a stored session loads
// even after its config file changes.
//
// Usage:
//
//	store, err := session.NewSQLitePersistence("sessions.db", configMgr, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store, logger)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
